// database/team_migrations.go - Team and join-request tables
package database

import (
	"teammatch/models"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RunTeamMigrations creates the team, membership and join-request tables
// together with the constraints the membership workflow relies on.
func RunTeamMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Team{},
		&models.TeamMember{},
		&models.JoinRequest{},
	); err != nil {
		return err
	}

	if err := createTeamConstraints(db); err != nil {
		return err
	}

	createTeamIndexes(db)

	log.Debug("✅ Team migrations completed successfully")
	return nil
}

// createTeamConstraints adds the partial unique indexes. Both Postgres and
// SQLite support the WHERE clause.
func createTeamConstraints(db *gorm.DB) error {
	stmts := []string{
		// At most one PENDING request per (user, team); decided rows are history.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_join_requests_pending ON join_requests(user_id, team_id) WHERE status = 'PENDING'",
		// Exactly one creator row per team.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_team_members_creator ON team_members(team_id) WHERE role = 'creator'",
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return errors.Wrapf(err, "creating constraint: %s", stmt)
		}
	}
	return nil
}

// createTeamIndexes creates lookup indexes for team tables
func createTeamIndexes(db *gorm.DB) {
	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_olympiad_open ON teams(olympiad_id, is_open)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_join_requests_team_status ON join_requests(team_id, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_team_members_role ON team_members(role)")
}

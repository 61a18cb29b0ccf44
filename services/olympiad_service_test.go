package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOlympiadSlugs(t *testing.T) {
	f := newFixture(t)
	svc := NewOlympiadService(f.db)

	o, err := svc.CreateOlympiad(OlympiadInput{ShortName: "IMO", Name: "International Mathematical Olympiad", Year: 2025, Subject: "Math"})
	require.NoError(t, err)
	assert.Equal(t, "imo-2025", o.Slug)

	again, err := svc.CreateOlympiad(OlympiadInput{ShortName: "IMO", Name: "Another", Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "imo-2025-2", again.Slug)

	// The fixture olympiad already owns ioi-2025.
	ioi, err := svc.CreateOlympiad(OlympiadInput{Name: "IOI", Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, "ioi-2025-2", ioi.Slug)

	_, err = svc.CreateOlympiad(OlympiadInput{Name: " "})
	requireCode(t, err, "INVALID_INPUT")

	got, err := svc.GetOlympiadBySlug("imo-2025")
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = svc.GetOlympiadBySlug("nope")
	requireCode(t, err, "OLYMPIAD_NOT_FOUND")
}

func TestListOlympiadsFilters(t *testing.T) {
	f := newFixture(t)
	svc := NewOlympiadService(f.db)

	_, err := svc.CreateOlympiad(OlympiadInput{ShortName: "IMO", Name: "IMO", Year: 2024, Subject: "Math", Level: "International"})
	require.NoError(t, err)
	_, err = svc.CreateOlympiad(OlympiadInput{ShortName: "IPhO", Name: "IPhO", Year: 2025, Subject: "Physics", Level: "International"})
	require.NoError(t, err)

	all, err := svc.ListOlympiads(OlympiadFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	math, err := svc.ListOlympiads(OlympiadFilter{Subject: "math"})
	require.NoError(t, err)
	require.Len(t, math, 1)
	assert.Equal(t, "imo-2024", math[0].Slug)

	y, err := svc.ListOlympiads(OlympiadFilter{Year: 2025, Level: "international"})
	require.NoError(t, err)
	require.Len(t, y, 1)
	assert.Equal(t, "ipho-2025", y[0].Slug)
}

func TestImportOlympiadsUpserts(t *testing.T) {
	f := newFixture(t)
	svc := NewOlympiadService(f.db)

	n, err := svc.ImportOlympiads([]OlympiadInput{
		{Slug: "ioi-2025", Name: "IOI renamed", Year: 2025},
		{ShortName: "EGOI", Name: "European Girls' Olympiad in Informatics", Year: 2025},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ioi, err := svc.GetOlympiadBySlug("ioi-2025")
	require.NoError(t, err)
	assert.Equal(t, f.olympiad.ID, ioi.ID)
	assert.Equal(t, "IOI renamed", ioi.Name)

	_, err = svc.GetOlympiadBySlug("egoi-2025")
	require.NoError(t, err)

	_, err = svc.ImportOlympiads([]OlympiadInput{{Name: ""}})
	requireCode(t, err, "INVALID_INPUT")
}

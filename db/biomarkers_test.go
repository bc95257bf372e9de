// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humaidq/bloodwork/biomarker"
)

func TestSyncBiomarkerDefinitionsUpsertsEach(t *testing.T) {
	mock := useMockPool(t)

	defs := []biomarker.Definition{
		{Name: "Glucose", Unit: "mg/dL", Category: biomarker.CategoryMetabolic, ReferenceLow: floatPtr(70), ReferenceHigh: floatPtr(99)},
		{Name: "LDL Cholesterol", Unit: "mg/dL", Category: biomarker.CategoryLipidPanel, ReferenceHigh: floatPtr(99)},
	}

	var noBound *float64

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO biomarker_definitions").
		WithArgs("glucose", "Glucose", "mg/dL", biomarker.CategoryMetabolic, floatPtr(70), floatPtr(99)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO biomarker_definitions").
		WithArgs("ldl cholesterol", "LDL Cholesterol", "mg/dL", biomarker.CategoryLipidPanel, noBound, floatPtr(99)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, SyncBiomarkerDefinitions(testContext(), defs))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncBiomarkerDefinitionsRollsBack(t *testing.T) {
	mock := useMockPool(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO biomarker_definitions").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := SyncBiomarkerDefinitions(testContext(), []biomarker.Definition{{Name: "Glucose", Unit: "mg/dL"}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCatalog(t *testing.T) {
	mock := useMockPool(t)

	mock.ExpectQuery("FROM biomarker_definitions").
		WillReturnRows(pgxmock.NewRows([]string{"name", "unit", "category", "reference_low", "reference_high"}).
			AddRow("Glucose", "mg/dL", biomarker.CategoryMetabolic, floatPtr(70), floatPtr(99)).
			AddRow("Site Marker", "U/L", "", nil, nil))

	catalog, err := LoadCatalog(testContext())
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	def, err := catalog.Lookup("site marker")
	require.NoError(t, err)
	assert.Equal(t, "U/L", def.Unit)
	assert.Equal(t, biomarker.CategoryOther, catalog.CategoryOf("Site Marker"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadCatalogRejectsDuplicates(t *testing.T) {
	mock := useMockPool(t)

	mock.ExpectQuery("FROM biomarker_definitions").
		WillReturnRows(pgxmock.NewRows([]string{"name", "unit", "category", "reference_low", "reference_high"}).
			AddRow("Glucose", "mg/dL", "", nil, nil).
			AddRow("GLUCOSE", "mg/dL", "", nil, nil))

	_, err := LoadCatalog(testContext())
	require.Error(t, err)
}

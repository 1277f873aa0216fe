package services

import (
	"errors"
	"testing"
	"time"

	"legal_aid_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCreateRecordsEveryTrackedField(t *testing.T) {
	db := setupTestDB(t)
	office := createOffice(t, db, "Nairobi Central", "nrb")

	logs := logsFor(t, db, "CaseOffice", office.ID)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, models.LogActionCreate, entry.Action)
	assert.Equal(t, "CaseOffice", entry.ParentType)
	assert.Equal(t, office.ID, entry.ParentID)
	assert.Equal(t, "Nairobi Central", entry.Note)
	assert.Nil(t, entry.UserID)
	assert.Len(t, entry.Changes, len(office.AuditFields()))

	changes := changeMap(entry)
	assert.Equal(t, "Nairobi Central", changes["Change:name"])
	assert.Equal(t, "NRB", changes["Change:case_office_code"])
	assert.NotContains(t, changes, "Change:id")
	assert.NotContains(t, changes, "Change:created_at")
}

func TestLogUpdateRecordsOnlyChangedFields(t *testing.T) {
	db := setupTestDB(t)
	actor := createOfficer(t, db, "officer@example.org", nil)
	client := createClient(t, db, "Amina Otieno")

	client.ContactNumber = "+254700000000"
	require.NoError(t, UpdateClient(db, client, &actor.ID))

	logs := logsFor(t, db, "Client", client.ID)
	require.Len(t, logs, 2)

	update := logs[1]
	assert.Equal(t, models.LogActionUpdate, update.Action)
	require.NotNil(t, update.UserID)
	assert.Equal(t, actor.ID, *update.UserID)
	require.Len(t, update.Changes, 1)
	assert.Equal(t, "contact_number", update.Changes[0].Field)
	assert.Equal(t, "+254700000000", update.Changes[0].Value)
	assert.Equal(t, models.LogChangeActionChange, update.Changes[0].Action)
}

func TestLogUpdateWithoutChangesStillLogs(t *testing.T) {
	db := setupTestDB(t)
	client := createClient(t, db, "Brian Kamau")

	require.NoError(t, UpdateClient(db, client, nil))

	logs := logsFor(t, db, "Client", client.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, models.LogActionUpdate, logs[1].Action)
	assert.Empty(t, logs[1].Changes)
}

func TestLogDeleteIsWrittenBeforeRemoval(t *testing.T) {
	db := setupTestDB(t)
	client := createClient(t, db, "Carol Wanjiru")

	require.NoError(t, DeleteClient(db, client.ID, nil))

	logs := logsFor(t, db, "Client", client.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, models.LogActionDelete, logs[1].Action)
	assert.Equal(t, "Carol Wanjiru", logs[1].Note)
	assert.Empty(t, logs[1].Changes)

	_, err := GetClient(db, client.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCaseCreateAttachesRelationChangesToCreateLog(t *testing.T) {
	db := setupTestDB(t)
	office := createOffice(t, db, "Mombasa", "MSA")
	officer := createOfficer(t, db, "officer@example.org", &office.ID)
	client := createClient(t, db, "Daniel Mwangi")

	lc := &models.LegalCase{
		ClientID:      client.ID,
		CaseOfficeIDs: []uint{office.ID},
		UserIDs:       []uint{officer.ID},
	}
	require.NoError(t, CreateLegalCase(db, lc, &officer.ID))

	logs := logsFor(t, db, "LegalCase", lc.ID)
	require.Len(t, logs, 1)

	changes := changeMap(logs[0])
	assert.Equal(t, lc.CaseNumber, changes["Change:case_number"])
	assert.Equal(t, models.CaseStateOpened, changes["Change:state"])
	assert.Equal(t, "[1]", changes["Add:"+models.RelationCaseOffices])
	assert.Equal(t, "[1]", changes["Add:"+models.RelationUsers])
	assert.NotContains(t, changes, "Add:"+models.RelationCaseTypes)
	assert.Equal(t, lc.CaseNumber, logs[0].Note)
}

func TestCaseUpdateAddingOneUserRecordsSingleAdd(t *testing.T) {
	db := setupTestDB(t)
	office := createOffice(t, db, "Kisumu", "KSM")
	first := createOfficer(t, db, "first@example.org", &office.ID)
	second := createOfficer(t, db, "second@example.org", &office.ID)
	client := createClient(t, db, "Esther Achieng")

	lc := &models.LegalCase{ClientID: client.ID, CaseOfficeIDs: []uint{office.ID}, UserIDs: []uint{first.ID}}
	require.NoError(t, CreateLegalCase(db, lc, nil))

	stored, err := GetLegalCase(db, lc.ID)
	require.NoError(t, err)
	stored.UserIDs = []uint{first.ID, second.ID}
	assigned, err := UpdateLegalCase(db, stored, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID}, assigned)

	logs := logsFor(t, db, "LegalCase", lc.ID)
	require.Len(t, logs, 2)
	update := logs[1]
	assert.Equal(t, models.LogActionUpdate, update.Action)
	require.Len(t, update.Changes, 1)
	assert.Equal(t, models.LogChangeActionAdd, update.Changes[0].Action)
	assert.Equal(t, models.RelationUsers, update.Changes[0].Field)
	assert.Equal(t, encodeIDs([]uint{second.ID}), update.Changes[0].Value)

	reloaded, err := GetLegalCase(db, lc.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, reloaded.UserIDs)
}

func TestCaseUpdateRemovingUserRecordsRemove(t *testing.T) {
	db := setupTestDB(t)
	office := createOffice(t, db, "Nakuru", "NKR")
	officer := createOfficer(t, db, "officer@example.org", &office.ID)
	client := createClient(t, db, "Felix Njoroge")

	lc := &models.LegalCase{ClientID: client.ID, CaseOfficeIDs: []uint{office.ID}, UserIDs: []uint{officer.ID}}
	require.NoError(t, CreateLegalCase(db, lc, nil))

	stored, err := GetLegalCase(db, lc.ID)
	require.NoError(t, err)
	stored.UserIDs = nil
	stored.State = models.CaseStateInProgress
	_, err = UpdateLegalCase(db, stored, nil)
	require.NoError(t, err)

	logs := logsFor(t, db, "LegalCase", lc.ID)
	require.Len(t, logs, 2)
	changes := changeMap(logs[1])
	assert.Equal(t, models.CaseStateInProgress, changes["Change:state"])
	assert.Equal(t, encodeIDs([]uint{officer.ID}), changes["Remove:"+models.RelationUsers])
	assert.Len(t, logs[1].Changes, 2)
}

func TestChildEntitiesLogUnderTheirCase(t *testing.T) {
	db := setupTestDB(t)
	office := createOffice(t, db, "Eldoret", "ELD")
	client := createClient(t, db, "Grace Chebet")
	lc := createCase(t, db, client.ID, office.ID, nil)

	note := &models.Note{LegalCaseID: lc.ID, Title: "First call", Content: "Client called"}
	require.NoError(t, CreateNote(db, note, nil))

	logs := logsFor(t, db, "Note", note.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "LegalCase", logs[0].ParentType)
	assert.Equal(t, lc.ID, logs[0].ParentID)
	assert.Equal(t, "First call", logs[0].Note)

	feed, err := ListLogs(db, LogFilters{ParentType: "LegalCase", ParentID: lc.ID})
	require.NoError(t, err)
	assert.Len(t, feed, 2)
	assert.Equal(t, "Note", feed[0].TargetType)
}

func TestAuditNoteFallsBackToTypeName(t *testing.T) {
	db := setupTestDB(t)
	office := createOffice(t, db, "Thika", "THK")
	client := createClient(t, db, "Hassan Ali")
	lc := createCase(t, db, client.ID, office.ID, nil)

	note := &models.Note{LegalCaseID: lc.ID, Content: "Untitled"}
	require.NoError(t, CreateNote(db, note, nil))

	logs := logsFor(t, db, "Note", note.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, "Note", logs[0].Note)
}

func TestLogsAreImmutable(t *testing.T) {
	db := setupTestDB(t)
	office := createOffice(t, db, "Nyeri", "NYR")

	logs := logsFor(t, db, "CaseOffice", office.ID)
	require.Len(t, logs, 1)

	entry := logs[0]
	entry.Note = "rewritten"
	err := db.Save(&entry).Error
	assert.ErrorIs(t, err, models.ErrAuditRecordImmutable)

	err = db.Delete(&entry).Error
	assert.ErrorIs(t, err, models.ErrAuditRecordImmutable)
}

func TestCreateLog(t *testing.T) {
	db := setupTestDB(t)

	t.Run("DefaultsParentToTarget", func(t *testing.T) {
		entry, err := CreateLog(db, LogInput{
			TargetType: "LegalCase",
			TargetID:   7,
			Action:     "Update",
			Note:       "<b>Imported</b> from paper file",
			Changes:    []LogChangeInput{{Field: "state", Value: "Closed"}},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "LegalCase", entry.ParentType)
		assert.Equal(t, uint(7), entry.ParentID)
		assert.Equal(t, "Imported from paper file", entry.Note)
		require.Len(t, entry.Changes, 1)
		assert.Equal(t, models.LogChangeActionChange, entry.Changes[0].Action)
	})

	t.Run("RejectsUnknownAction", func(t *testing.T) {
		_, err := CreateLog(db, LogInput{TargetType: "LegalCase", TargetID: 7, Action: "Archive"}, nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "action")
	})
}

func TestDiffIDs(t *testing.T) {
	added, removed := diffIDs([]uint{1, 2, 3}, []uint{3, 4, 4, 1})
	assert.Equal(t, []uint{4}, added)
	assert.Equal(t, []uint{2}, removed)

	added, removed = diffIDs(nil, nil)
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestLogLabels(t *testing.T) {
	entry := models.Log{TargetType: "LegalCase", Action: models.LogActionCreate, CreatedAt: time.Now()}
	assert.Equal(t, "Case created", entry.Label())

	entry = models.Log{TargetType: "CaseType", Action: models.LogActionDelete}
	assert.Equal(t, "CaseType Delete", entry.Label())
}

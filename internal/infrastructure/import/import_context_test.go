package csvimport

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personRules() []FieldRule {
	return []FieldRule{
		Field("First Name").Required().Build(),
		Field("Last Name").Required().Build(),
		Field("ID Type").Required().OneOf("QID", "PASSPORT").Build(),
		Field("QID Number").Pattern(`^\d{11}$`, "11 digits").Unique().Build(),
	}
}

func TestImportSession_StateTransitions(t *testing.T) {
	session := NewImportSession(uuid.New(), uuid.New(), "people.csv", 1024)
	assert.Equal(t, StateCreated, session.State)
	assert.Nil(t, session.CompletedAt)

	session.UpdateState(StateValidating)
	assert.Equal(t, StateValidating, session.State)
	assert.Nil(t, session.CompletedAt)

	session.UpdateState(StateCompleted)
	assert.Equal(t, StateCompleted, session.State)
	assert.NotNil(t, session.CompletedAt)
}

func TestImportProcessor_Validate(t *testing.T) {
	t.Run("all rows valid", func(t *testing.T) {
		csv := "First Name,Last Name,ID Type,QID Number\n" +
			"Fatima,Al-Thani,QID,28912345678\n" +
			"Omar,Hassan,QID,29912345678\n"
		session := NewImportSession(uuid.New(), uuid.New(), "people.csv", int64(len(csv)))
		p := NewImportProcessor(WithMaxErrors(10))

		result, err := p.Validate(context.Background(), session, strings.NewReader(csv), personRules())

		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 2, result.ValidRows)
		assert.Equal(t, 0, result.ErrorRows)
		assert.True(t, result.IsValid())
		assert.Equal(t, StateValidated, session.State)
	})

	t.Run("invalid rows accumulate errors", func(t *testing.T) {
		csv := "First Name,Last Name,ID Type,QID Number\n" +
			"Fatima,Al-Thani,QID,28912345678\n" +
			",Hassan,QID,29912345678\n" +
			"Lina,Khalil,VISA,30912345678\n" +
			"Noor,Said,QID,28912345678\n"
		session := NewImportSession(uuid.New(), uuid.New(), "people.csv", int64(len(csv)))
		p := NewImportProcessor(WithMaxErrors(10))

		result, err := p.Validate(context.Background(), session, strings.NewReader(csv), personRules())

		require.NoError(t, err)
		assert.Equal(t, 4, result.TotalRows)
		assert.Equal(t, 1, result.ValidRows)
		assert.Equal(t, 3, result.ErrorRows)
		assert.Equal(t, StateFailed, session.State)

		codes := make(map[string]bool)
		for _, e := range result.Errors {
			codes[e.Code] = true
		}
		assert.True(t, codes[ErrCodeImportRequiredField])
		assert.True(t, codes[ErrCodeImportInvalidValue])
		assert.True(t, codes[ErrCodeImportDuplicateInFile])
	})

	t.Run("header line is informational", func(t *testing.T) {
		// Columns are consumed by position; the header names do not matter
		csv := "Given Name,Surname,Document,Number\n" +
			"Fatima,Al-Thani,QID,28912345678\n"
		session := NewImportSession(uuid.New(), uuid.New(), "people.csv", int64(len(csv)))
		p := NewImportProcessor(WithTemplate([]string{"First Name", "Last Name", "ID Type", "QID Number"}))

		result, err := p.Validate(context.Background(), session, strings.NewReader(csv), personRules())

		require.NoError(t, err)
		assert.Equal(t, 1, result.ValidRows)
		assert.Equal(t, 0, result.ErrorRows)
		assert.Equal(t, StateValidated, session.State)
	})

	t.Run("header only file is rejected", func(t *testing.T) {
		csv := "First Name,Last Name,ID Type,QID Number\n"
		session := NewImportSession(uuid.New(), uuid.New(), "people.csv", int64(len(csv)))
		p := NewImportProcessor()

		_, err := p.Validate(context.Background(), session, strings.NewReader(csv), personRules())

		assert.ErrorIs(t, err, ErrNoDataRows)
		assert.Equal(t, StateFailed, session.State)
	})

	t.Run("reference lookup flags unknown values", func(t *testing.T) {
		csv := "First Name,Last Name,ID Type,QID Number,Access Group\n" +
			"Fatima,Al-Thani,QID,28912345678,Media\n" +
			"Omar,Hassan,QID,29912345678,Catering\n"
		session := NewImportSession(uuid.New(), uuid.New(), "people.csv", int64(len(csv)))
		rules := append(personRules(), Field("Access Group").Required().Reference("access group").Build())
		p := NewImportProcessor(WithReferenceLookup(func(refType, value string) (bool, error) {
			return value == "Media", nil
		}))

		result, err := p.Validate(context.Background(), session, strings.NewReader(csv), rules)

		require.NoError(t, err)
		assert.Equal(t, 1, result.ValidRows)
		assert.Equal(t, 1, result.ErrorRows)
	})

	t.Run("cancelled context aborts validation", func(t *testing.T) {
		csv := "First Name,Last Name,ID Type,QID Number\nFatima,Al-Thani,QID,28912345678\n"
		session := NewImportSession(uuid.New(), uuid.New(), "people.csv", int64(len(csv)))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewImportProcessor().Validate(ctx, session, strings.NewReader(csv), personRules())

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, StateCancelled, session.State)
	})

	t.Run("max rows enforced", func(t *testing.T) {
		csv := "First Name,Last Name,ID Type,QID Number\n" +
			"Fatima,Al-Thani,QID,28912345678\n" +
			"Omar,Hassan,QID,29912345678\n" +
			"Lina,Khalil,QID,30912345678\n"
		session := NewImportSession(uuid.New(), uuid.New(), "people.csv", int64(len(csv)))
		p := NewImportProcessor(WithMaxRows(2))

		result, err := p.Validate(context.Background(), session, strings.NewReader(csv), personRules())

		require.NoError(t, err)
		assert.Equal(t, StateFailed, session.State)
		assert.Equal(t, 1, result.ErrorRows)
		assert.NotEmpty(t, result.Errors)
	})
}

func TestImportContext_RowTracking(t *testing.T) {
	session := NewImportSession(uuid.New(), uuid.New(), "people.csv", 100)
	ic := NewImportContext(context.Background(), session)

	ic.AddValidRow(makeRow(2, map[string]string{"First Name": "Fatima"}))
	ic.MarkRowError(3)

	assert.Len(t, ic.ValidRows(), 1)
	assert.True(t, ic.HasRowError(3))
	assert.False(t, ic.HasRowError(2))
	assert.Equal(t, 1, ic.ErrorCount())
}

func TestInMemorySessionStore(t *testing.T) {
	store := NewInMemorySessionStore(time.Hour)
	defer store.Stop()

	projectID := uuid.New()
	session := NewImportSession(projectID, uuid.New(), "people.csv", 100)
	require.NoError(t, store.Save(session))

	t.Run("get by id", func(t *testing.T) {
		got, err := store.Get(session.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, session.ID, got.ID)
	})

	t.Run("get missing returns not found", func(t *testing.T) {
		got, err := store.Get(uuid.New())
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.Nil(t, got)
	})

	t.Run("get by project", func(t *testing.T) {
		other := NewImportSession(uuid.New(), uuid.New(), "other.csv", 50)
		require.NoError(t, store.Save(other))

		sessions, err := store.GetByProject(projectID, 10)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, session.ID, sessions[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(session.ID))
		got, err := store.Get(session.ID)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.Nil(t, got)
	})
}

func TestInMemorySessionStore_TTL(t *testing.T) {
	store := NewInMemorySessionStore(time.Millisecond)
	defer store.Stop()

	session := NewImportSession(uuid.New(), uuid.New(), "people.csv", 100)
	require.NoError(t, store.Save(session))

	time.Sleep(5 * time.Millisecond)

	got, err := store.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Nil(t, got)

	store.Cleanup()
	sessions, err := store.GetByProject(session.ProjectID, 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

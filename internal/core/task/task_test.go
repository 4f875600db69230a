package task

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Toggle(t *testing.T) {
	assert.Equal(t, StatusCompleted, StatusPending.Toggle())
	assert.Equal(t, StatusPending, StatusCompleted.Toggle())
}

func TestPartition(t *testing.T) {
	tasks := []Task{
		{ID: "1", Status: StatusPending},
		{ID: "2", Status: StatusCompleted},
		{ID: "3", Status: StatusPending},
		{ID: "4", Status: StatusCompleted},
	}

	pending, completed := Partition(tasks)

	require.Len(t, pending, 2)
	require.Len(t, completed, 2)
	assert.Equal(t, "1", pending[0].ID, "order is preserved")
	assert.Equal(t, "3", pending[1].ID)
	assert.Equal(t, "2", completed[0].ID)
	assert.Equal(t, "4", completed[1].ID)
	assert.Equal(t, len(tasks), len(pending)+len(completed))
}

func TestPartition_Empty(t *testing.T) {
	pending, completed := Partition(nil)
	assert.Empty(t, pending)
	assert.Empty(t, completed)
}

func TestTask_UnmarshalServiceItem(t *testing.T) {
	raw := `{
		"taskId": "abc",
		"title": "Buy milk",
		"description": "",
		"dueDate": "2025-01-20T23:59:59.000Z",
		"priority": "HIGH",
		"status": "PENDING",
		"createdAt": "2025-01-15T10:30:00.123456Z",
		"updatedAt": "2025-01-15T10:30:00.123456Z"
	}`

	var got Task
	require.NoError(t, json.Unmarshal([]byte(raw), &got))

	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, StatusPending, got.Status)
	assert.Equal(t, time.Date(2025, 1, 20, 23, 59, 59, 0, time.UTC), got.DueDate)
}

func TestTask_UnmarshalDueDateForms(t *testing.T) {
	tests := []struct {
		name    string
		due     string
		want    time.Time
		wantErr bool
	}{
		{"instant", `"2025-01-20T23:59:59.000Z"`, time.Date(2025, 1, 20, 23, 59, 59, 0, time.UTC), false},
		{"instant with offset", `"2025-01-20T10:00:00+02:00"`, time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC), false},
		{"calendar day", `"2025-01-25"`, time.Date(2025, 1, 25, 23, 59, 59, 0, time.UTC), false},
		{"empty", `""`, time.Time{}, false},
		{"missing", `null`, time.Time{}, false},
		{"garbage", `"someday"`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"taskId":"abc","title":"Buy milk","dueDate":` + tt.due + `,"priority":"LOW","status":"COMPLETED"}`

			var got Task
			err := json.Unmarshal([]byte(raw), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.DueDate), "got %s", got.DueDate)
			assert.Equal(t, "abc", got.ID)
			assert.Equal(t, "Buy milk", got.Title)
			assert.Equal(t, PriorityLow, got.Priority)
			assert.Equal(t, StatusCompleted, got.Status)
		})
	}
}

func TestTask_UnmarshalCalendarDayInList(t *testing.T) {
	raw := `[{"taskId":"a","dueDate":"2025-01-20T23:59:59.000Z"},{"taskId":"b","dueDate":"2025-01-20"}]`

	var got []Task
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	require.Len(t, got, 2)
	assert.True(t, got[0].DueDate.Equal(got[1].DueDate))
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name       string
		draft      Draft
		wantFields []string
	}{
		{
			name:  "valid",
			draft: Draft{Title: "Buy milk", DueDate: "2025-01-20"},
		},
		{
			name:       "empty title",
			draft:      Draft{DueDate: "2025-01-20"},
			wantFields: []string{"title"},
		},
		{
			name:       "empty due date",
			draft:      Draft{Title: "Buy milk"},
			wantFields: []string{"dueDate"},
		},
		{
			name:       "both empty",
			draft:      Draft{},
			wantFields: []string{"title", "dueDate"},
		},
		{
			name:       "invalid priority",
			draft:      Draft{Title: "x", DueDate: "2025-01-20", Priority: "URGENT"},
			wantFields: []string{"priority"},
		},
		{
			name:       "unparseable due date",
			draft:      Draft{Title: "x", DueDate: "someday"},
			wantFields: []string{"dueDate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)

			got := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				got = append(got, fe.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, got)
		})
	}
}

func TestDraft_Request(t *testing.T) {
	t.Run("pins due date to end of day UTC", func(t *testing.T) {
		req, err := Draft{Title: "Buy milk", DueDate: "2025-01-20"}.Request()
		require.NoError(t, err)

		assert.Equal(t, "Buy milk", req.Title)
		assert.Equal(t, "2025-01-20T23:59:59.000Z", req.DueDate)
		assert.Equal(t, PriorityMedium, req.Priority, "empty priority defaults to MEDIUM")
	})

	t.Run("keeps explicit priority and description", func(t *testing.T) {
		req, err := Draft{Title: "x", Description: "notes", DueDate: "2025-03-01", Priority: PriorityLow}.Request()
		require.NoError(t, err)

		assert.Equal(t, "notes", req.Description)
		assert.Equal(t, PriorityLow, req.Priority)
	})

	t.Run("accepts loose date formats", func(t *testing.T) {
		req, err := Draft{Title: "x", DueDate: "Jan 20 2025"}.Request()
		require.NoError(t, err)
		assert.Equal(t, "2025-01-20T23:59:59.000Z", req.DueDate)
	})

	t.Run("invalid draft", func(t *testing.T) {
		_, err := Draft{}.Request()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   Patch
		wantErr bool
	}{
		{"status only", Patch{Status: Ptr(StatusCompleted)}, false},
		{"edit fields", Patch{Title: Ptr("t"), Description: Ptr(""), Priority: Ptr(PriorityLow)}, false},
		{"empty patch", Patch{}, true},
		{"blank title", Patch{Title: Ptr("  ")}, true},
		{"bad priority", Patch{Priority: Ptr(Priority("NOPE"))}, true},
		{"bad status", Patch{Status: Ptr(Status("ARCHIVED"))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestPatch_JSONOmitsUnsetFields(t *testing.T) {
	b, err := json.Marshal(Patch{Status: Ptr(StatusCompleted)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"COMPLETED"}`, string(b))

	b, err = json.Marshal(Patch{Description: Ptr("")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":""}`, string(b), "empty description is still sent")
}

func TestPatch_Apply(t *testing.T) {
	orig := Task{ID: "1", Title: "a", Description: "d", Priority: PriorityLow, Status: StatusPending}
	got := Patch{Title: Ptr("b"), Status: Ptr(StatusCompleted)}.Apply(orig)

	assert.Equal(t, "b", got.Title)
	assert.Equal(t, "d", got.Description)
	assert.Equal(t, PriorityLow, got.Priority)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "a", orig.Title, "original is not mutated")
}

func TestWriteICS(t *testing.T) {
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	tasks := []Task{
		{
			ID:       "t-1",
			Title:    "Buy milk",
			DueDate:  time.Date(2025, 1, 20, 23, 59, 59, 0, time.UTC),
			Priority: PriorityHigh,
			Status:   StatusPending,
		},
		{
			ID:          "t-2",
			Title:       "File taxes",
			Description: "forms in drawer",
			DueDate:     time.Date(2025, 4, 15, 23, 59, 59, 0, time.UTC),
			Priority:    PriorityLow,
			Status:      StatusCompleted,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, tasks, now))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+icsProductID)
	assert.Contains(t, out, "UID:t-1@todos")
	assert.Contains(t, out, "SUMMARY:Buy milk")
	assert.Contains(t, out, "DUE:20250120T235959Z")
	assert.Contains(t, out, "PRIORITY:1")
	assert.Contains(t, out, "STATUS:NEEDS-ACTION")
	assert.Contains(t, out, "DESCRIPTION:forms in drawer")
	assert.Contains(t, out, "STATUS:COMPLETED")
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("BEGIN:VTODO")))
}

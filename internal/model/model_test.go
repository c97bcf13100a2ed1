package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/apperr"
)

func TestParseDeadline(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"date and time", "2099-01-02 15:04", ptr(time.Date(2099, 1, 2, 15, 4, 0, 0, loc))},
		{"T layout", "2099-01-02T15:04", ptr(time.Date(2099, 1, 2, 15, 4, 0, 0, loc))},
		{"bare date is end of day", "2099-01-02", ptr(time.Date(2099, 1, 2, 23, 59, 0, 0, loc))},
		{"rfc3339 keeps its offset", "2099-01-02T15:04:05Z", ptr(time.Date(2099, 1, 2, 15, 4, 5, 0, time.UTC))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeadline(tt.input, loc)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseDeadline_Rejects(t *testing.T) {
	for _, in := range []string{"someday", "2099-13-01", "01/02/2099", "2099-01-02 25:00"} {
		_, err := ParseDeadline(in, time.UTC)
		assert.Error(t, err, in)
	}
}

func TestParseDeadline_NilLocationIsLocal(t *testing.T) {
	got, err := ParseDeadline("2099-01-02 10:00", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Local, got.Location())
}

func TestFormatDeadline(t *testing.T) {
	assert.Empty(t, FormatDeadline(nil))

	in := "2099-03-04 05:06"
	dl, err := ParseDeadline(in, time.Local)
	require.NoError(t, err)
	assert.Equal(t, in, FormatDeadline(dl))
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input string
		want  Priority
	}{
		{"", PriorityMedium},
		{"low", PriorityLow},
		{"LOW", PriorityLow},
		{" High ", PriorityHigh},
		{"Medium", PriorityMedium},
		{"m", PriorityMedium},
		{"h", PriorityHigh},
	}
	for _, tt := range tests {
		got, err := ParsePriority(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParsePriority("urgent")
	assert.Error(t, err)
}

func TestPriorityNextWraps(t *testing.T) {
	assert.Equal(t, PriorityMedium, PriorityLow.Next())
	assert.Equal(t, PriorityHigh, PriorityMedium.Next())
	assert.Equal(t, PriorityLow, PriorityHigh.Next())
	assert.Equal(t, PriorityLow, Priority("").Next())
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		input string
		want  Filter
	}{
		{"", FilterAll},
		{"all", FilterAll},
		{"Pending", FilterPending},
		{"todo", FilterPending},
		{"completed", FilterCompleted},
		{"DONE", FilterCompleted},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
		assert.Equal(t, got, must(ParseFilter(got.String())), "String round-trips")
	}

	_, err := ParseFilter("bogus")
	assert.Error(t, err)
}

func TestFilterNextAndMatch(t *testing.T) {
	assert.Equal(t, FilterPending, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterPending.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())

	done := Todo{Completed: true}
	open := Todo{}
	assert.True(t, FilterAll.Match(done))
	assert.True(t, FilterAll.Match(open))
	assert.True(t, FilterPending.Match(open))
	assert.False(t, FilterPending.Match(done))
	assert.True(t, FilterCompleted.Match(done))
	assert.False(t, FilterCompleted.Match(open))
}

func TestDraftNormalizeAndValidate(t *testing.T) {
	d := Draft{Title: "  buy milk ", Description: " 2L\n"}.Normalize()
	assert.Equal(t, "buy milk", d.Title)
	assert.Equal(t, "2L", d.Description)
	assert.Equal(t, PriorityMedium, d.Priority)
	assert.NoError(t, d.Validate())

	err := Draft{Title: "   "}.Validate()
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = Draft{Title: "x", Priority: "urgent"}.Validate()
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestTodoDraftCopiesDeadline(t *testing.T) {
	dl := time.Date(2099, 1, 2, 3, 4, 0, 0, time.UTC)
	td := Todo{ID: 7, Title: "t", Description: "d", Priority: PriorityHigh, Deadline: &dl, Completed: true}

	d := td.Draft()
	assert.Equal(t, Draft{Title: "t", Description: "d", Priority: PriorityHigh, Deadline: d.Deadline}, d)
	require.NotNil(t, d.Deadline)
	*d.Deadline = d.Deadline.Add(time.Hour)
	assert.Equal(t, time.Date(2099, 1, 2, 3, 4, 0, 0, time.UTC), dl, "draft must not alias the record")
}

func ptr(t time.Time) *time.Time { return &t }

func must(f Filter, err error) Filter {
	if err != nil {
		panic(err)
	}
	return f
}

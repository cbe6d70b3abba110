package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

func TestNewTask(t *testing.T) {
	creator := uuid.New()

	task, err := NewTask("Prepare annual report", creator)
	require.NoError(t, err)
	assert.Equal(t, StateCreated, task.State)
	assert.Equal(t, creator, task.CreatorID)
	assert.Nil(t, task.FinisherID)
	assert.Nil(t, task.FinishedAt)

	_, err = NewTask("  ", creator)
	require.Error(t, err)
	require.True(t, shared.IsValidation(err))
	verrs := err.(*shared.ValidationErrors)
	assert.True(t, verrs.On("title"))

	_, err = NewTask("Valid title", uuid.Nil)
	assert.Error(t, err)
}

func TestTaskFinishAndUnfinish(t *testing.T) {
	creator := uuid.New()
	finisher := uuid.New()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	task, err := NewTask("Call the client", creator)
	require.NoError(t, err)

	require.NoError(t, task.Finish(finisher, now))
	assert.Equal(t, StateFinished, task.State)
	require.NotNil(t, task.FinisherID)
	assert.Equal(t, finisher, *task.FinisherID)
	require.NotNil(t, task.FinishedAt)
	assert.True(t, task.FinishedAt.Equal(now))
	assert.False(t, task.Validate().HasErrors())

	// finishing again refreshes the bookkeeping instead of failing
	later := now.Add(2 * time.Hour)
	other := uuid.New()
	require.NoError(t, task.Finish(other, later))
	assert.Equal(t, other, *task.FinisherID)
	assert.True(t, task.FinishedAt.Equal(later))

	task.Unfinish(later.Add(time.Minute))
	assert.Equal(t, StateCreated, task.State)
	assert.Nil(t, task.FinisherID)
	assert.Nil(t, task.FinishedAt)

	// unfinishing an open task is a no-op transition, not an error
	task.Unfinish(later.Add(2 * time.Minute))
	assert.Equal(t, StateCreated, task.State)
}

func TestTaskFinishedInvariant(t *testing.T) {
	creator := uuid.New()
	task, err := NewTask("Review documents", creator)
	require.NoError(t, err)

	task.State = StateFinished
	errs := task.Validate()
	assert.True(t, errs.On("finisher"))
	assert.True(t, errs.On("finished_at"))
}

func TestTaskVisibility(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()
	stranger := uuid.New()

	task, err := NewTask("Send the newsletter", creator)
	require.NoError(t, err)
	require.NoError(t, task.Assign(assignee))

	assert.True(t, task.IsVisibleTo(creator))
	assert.True(t, task.IsVisibleTo(assignee))
	assert.False(t, task.IsVisibleTo(stranger))

	// assigning twice keeps a single entry
	require.NoError(t, task.Assign(assignee))
	assert.Len(t, task.AssigneeIDs, 1)

	task.Unassign(assignee)
	assert.False(t, task.IsVisibleTo(assignee))
}

func TestNewComment(t *testing.T) {
	taskID := uuid.New()
	author := uuid.New()

	comment, err := NewComment(taskID, author, "  Done, see attachment.  ")
	require.NoError(t, err)
	assert.Equal(t, "Done, see attachment.", comment.Body)

	_, err = NewComment(taskID, author, "   ")
	assert.Error(t, err)

	_, err = NewComment(uuid.Nil, author, "body")
	assert.Error(t, err)
}

package services

import (
	"context"
	"testing"

	"github.com/mcdur/task-management-api/internal/models"
	"github.com/mcdur/task-management-api/internal/repository"
	"github.com/mcdur/task-management-api/internal/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// TaskServiceTestSuite runs TaskService against an in-memory database
type TaskServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	ctx     context.Context
	service *TaskService
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	suite.ctx = context.Background()
	suite.service = NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)
}

func (suite *TaskServiceTestSuite) taskCount() int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	return count
}

func strPtr(s string) *string { return &s }

func (suite *TaskServiceTestSuite) TestGetAllTasks() {
	user := testutil.CreateUser(suite.T(), suite.db, "mcdur")
	testutil.CreateTask(suite.T(), suite.db, "Task 1", models.TaskStatusInProgress, user)
	testutil.CreateTask(suite.T(), suite.db, "Task 2", models.TaskStatusCompleted, user)

	tasks, err := suite.service.GetAllTasks(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Equal("Task 1", tasks[0].Title)
	suite.Require().NotNil(tasks[0].AssignedTo)
	suite.Equal("mcdur", tasks[0].AssignedTo.Username)
}

func (suite *TaskServiceTestSuite) TestGetAllTasks_Empty() {
	tasks, err := suite.service.GetAllTasks(suite.ctx)
	suite.Require().NoError(err)
	suite.NotNil(tasks)
	suite.Empty(tasks)
}

func (suite *TaskServiceTestSuite) TestCreateThenGet_RoundTrips() {
	user := testutil.CreateUser(suite.T(), suite.db, "mcdur")
	input := models.Task{
		ID:           999,
		Title:        "Write report",
		Description:  strPtr("Quarterly numbers"),
		Status:       models.TaskStatusInProgress,
		AssignedToID: &user.ID,
	}

	created, err := suite.service.CreateTask(suite.ctx, input)
	suite.Require().NoError(err)
	suite.NotZero(created.ID)
	suite.NotEqual(uint64(999), created.ID)

	got, err := suite.service.GetTaskByID(suite.ctx, created.ID)
	suite.Require().NoError(err)
	suite.Equal(input.Title, got.Title)
	suite.Equal(*input.Description, *got.Description)
	suite.Equal(input.Status, got.Status)
	suite.Require().NotNil(got.AssignedToID)
	suite.Equal(user.ID, *got.AssignedToID)
	suite.Require().NotNil(got.AssignedTo)
	suite.Equal("mcdur", got.AssignedTo.Username)
}

func (suite *TaskServiceTestSuite) TestCreateTask_DefaultsStatusAndAllowsUnassigned() {
	created, err := suite.service.CreateTask(suite.ctx, models.Task{
		Title:       "Test Task",
		Description: strPtr("Testing persistence layer"),
	})
	suite.Require().NoError(err)
	suite.NotZero(created.ID)
	suite.Equal("Test Task", created.Title)
	suite.Equal(models.TaskStatusTodo, created.Status)
	suite.Nil(created.AssignedToID)
	suite.Nil(created.AssignedTo)
}

func (suite *TaskServiceTestSuite) TestCreateTask_AssigneeFromRelation() {
	user := testutil.CreateUser(suite.T(), suite.db, "mcdur")

	created, err := suite.service.CreateTask(suite.ctx, models.Task{
		Title:      "Task",
		AssignedTo: &models.User{ID: user.ID, Username: "ignored"},
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(created.AssignedTo)
	suite.Equal("mcdur", created.AssignedTo.Username)

	var stored models.User
	suite.Require().NoError(suite.db.First(&stored, user.ID).Error)
	suite.Equal("mcdur", stored.Username)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	unknown := uint64(42)
	tests := []struct {
		name  string
		input models.Task
		err   error
	}{
		{"missing title", models.Task{}, ErrTitleRequired},
		{"blank title", models.Task{Title: "   "}, ErrTitleRequired},
		{"invalid status", models.Task{Title: "x", Status: "DONE"}, ErrInvalidStatus},
		{"unknown assignee", models.Task{Title: "x", AssignedToID: &unknown}, ErrUserNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateTask(suite.ctx, tt.input)
			suite.ErrorIs(err, tt.err)
			suite.Zero(suite.taskCount())
		})
	}
}

func (suite *TaskServiceTestSuite) TestGetTaskByID_NotFound() {
	_, err := suite.service.GetTaskByID(suite.ctx, 12345)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_OverridesPayloadID() {
	task := testutil.CreateTask(suite.T(), suite.db, "Original", models.TaskStatusTodo, nil)
	other := testutil.CreateTask(suite.T(), suite.db, "Other", models.TaskStatusTodo, nil)

	updated, err := suite.service.UpdateTask(suite.ctx, task.ID, models.Task{
		ID:     other.ID,
		Title:  "Renamed",
		Status: models.TaskStatusCompleted,
	})
	suite.Require().NoError(err)
	suite.Equal(task.ID, updated.ID)
	suite.Equal("Renamed", updated.Title)
	suite.Equal(models.TaskStatusCompleted, updated.Status)

	untouched, err := suite.service.GetTaskByID(suite.ctx, other.ID)
	suite.Require().NoError(err)
	suite.Equal("Other", untouched.Title)
	suite.Equal(int64(2), suite.taskCount())
}

func (suite *TaskServiceTestSuite) TestUpdateTask_FullReplace() {
	user := testutil.CreateUser(suite.T(), suite.db, "mcdur")
	created, err := suite.service.CreateTask(suite.ctx, models.Task{
		Title:        "Original",
		Description:  strPtr("details"),
		Status:       models.TaskStatusInProgress,
		AssignedToID: &user.ID,
	})
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateTask(suite.ctx, created.ID, models.Task{Title: "Replaced"})
	suite.Require().NoError(err)
	suite.Equal("Replaced", updated.Title)
	suite.Nil(updated.Description)
	suite.Equal(models.TaskStatusTodo, updated.Status)
	suite.Nil(updated.AssignedToID)
	suite.Nil(updated.AssignedTo)
	suite.Equal(created.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func (suite *TaskServiceTestSuite) TestUpdateTask_Reassign() {
	first := testutil.CreateUser(suite.T(), suite.db, "first")
	second := testutil.CreateUser(suite.T(), suite.db, "second")
	task := testutil.CreateTask(suite.T(), suite.db, "Task", models.TaskStatusTodo, first)

	updated, err := suite.service.UpdateTask(suite.ctx, task.ID, models.Task{
		Title:        "Task",
		AssignedToID: &second.ID,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.AssignedTo)
	suite.Equal("second", updated.AssignedTo.Username)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_NotFoundDoesNotPersist() {
	_, err := suite.service.UpdateTask(suite.ctx, 77, models.Task{Title: "Ghost"})
	suite.ErrorIs(err, ErrTaskNotFound)
	suite.Zero(suite.taskCount())
}

func (suite *TaskServiceTestSuite) TestUpdateTask_InvalidPayloadLeavesTask() {
	task := testutil.CreateTask(suite.T(), suite.db, "Original", models.TaskStatusTodo, nil)

	_, err := suite.service.UpdateTask(suite.ctx, task.ID, models.Task{Title: ""})
	suite.ErrorIs(err, ErrTitleRequired)

	got, err := suite.service.GetTaskByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Equal("Original", got.Title)
}

func (suite *TaskServiceTestSuite) TestDeleteTask() {
	user := testutil.CreateUser(suite.T(), suite.db, "mcdur")
	task := testutil.CreateTask(suite.T(), suite.db, "Task", models.TaskStatusTodo, user)

	suite.Require().NoError(suite.service.DeleteTask(suite.ctx, task.ID))

	_, err := suite.service.GetTaskByID(suite.ctx, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	var remaining int64
	suite.Require().NoError(suite.db.Model(&models.User{}).Count(&remaining).Error)
	suite.Equal(int64(1), remaining)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_NotFound() {
	suite.ErrorIs(suite.service.DeleteTask(suite.ctx, 5), ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestListTasksForUser() {
	alice := testutil.CreateUser(suite.T(), suite.db, "alice")
	bob := testutil.CreateUser(suite.T(), suite.db, "bob")
	testutil.CreateTask(suite.T(), suite.db, "A1", models.TaskStatusTodo, alice)
	testutil.CreateTask(suite.T(), suite.db, "B1", models.TaskStatusTodo, bob)
	testutil.CreateTask(suite.T(), suite.db, "A2", models.TaskStatusCompleted, alice)
	testutil.CreateTask(suite.T(), suite.db, "Unassigned", models.TaskStatusTodo, nil)

	tasks, err := suite.service.ListTasksForUser(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Equal("A1", tasks[0].Title)
	suite.Equal("A2", tasks[1].Title)

	_, err = suite.service.ListTasksForUser(suite.ctx, 999)
	suite.ErrorIs(err, ErrUserNotFound)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

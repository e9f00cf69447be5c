package tutor

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"learnhub/database"
	"learnhub/logger"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/realtime"
	"learnhub/services/notification"
	"learnhub/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentNotification struct {
	kind   string
	target interface{}
	msg    notification.Message
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (f *fakeDispatcher) record(kind string, target interface{}, msg notification.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{kind: kind, target: target, msg: msg})
	return f.err
}

func (f *fakeDispatcher) NotifyUser(_ context.Context, userID uint, msg notification.Message) error {
	return f.record("user", userID, msg)
}

func (f *fakeDispatcher) NotifyRole(_ context.Context, role string, msg notification.Message) error {
	return f.record("role", role, msg)
}

func (f *fakeDispatcher) NotifyCourse(_ context.Context, courseID uint, msg notification.Message) error {
	return f.record("course", courseID, msg)
}

func (f *fakeDispatcher) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sent {
		if s.kind == kind {
			n++
		}
	}
	return n
}

type fakeRealtime struct {
	mu     sync.Mutex
	events []realtime.Message
	sizes  map[string]int
	joins  map[uint][]string
}

func (f *fakeRealtime) RoomSize(room string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sizes[room]
}

func (f *fakeRealtime) Publish(_ context.Context, msg realtime.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
	return nil
}

func (f *fakeRealtime) JoinUser(_ context.Context, userID uint, room string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.joins == nil {
		f.joins = map[uint][]string{}
	}
	f.joins[userID] = append(f.joins[userID], room)
	return nil
}

type fakeUploader struct {
	token string
	body  string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, token string, file io.Reader, filename, _, kind string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	raw, _ := io.ReadAll(file)
	f.token = token
	f.body = string(raw)
	return "https://cdn.test/" + kind + "/" + filename, nil
}

type fixture struct {
	db       *gorm.DB
	actions  *Actions
	notifier *fakeDispatcher
	rt       *fakeRealtime
	uploader *fakeUploader
	tutor    Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.OpenTestDB(t)
	f := &fixture{
		db:       db,
		notifier: &fakeDispatcher{},
		rt:       &fakeRealtime{sizes: map[string]int{}},
		uploader: &fakeUploader{},
	}
	f.actions = NewActions(db, f.notifier, f.rt, f.uploader, logger.Nop())
	f.tutor = f.addTutor(t, "ada@example.com", true)
	return f
}

func (f *fixture) addTutor(t *testing.T, email string, withProfile bool) Session {
	t.Helper()
	user := models.User{Name: "Tutor", Email: email, Password: "x", Role: models.RoleTutor}
	require.NoError(t, f.db.Create(&user).Error)
	if withProfile {
		require.NoError(t, f.db.Create(&models.TutorProfile{UserID: user.ID, Headline: "Teacher"}).Error)
	}
	return Session{UserID: user.ID, Role: models.RoleTutor, Token: "tok-" + email}
}

func (f *fixture) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func courseInput() validators.CourseInput {
	base, current := 100.0, 65.0
	return validators.CourseInput{
		Title:        "Practical Go Services",
		Description:  "Build and ship HTTP services with Go from scratch.",
		BasePrice:    &base,
		CurrentPrice: &current,
		Tags:         []string{"go", "backend", "Go"},
	}
}

func moduleInputs() []validators.ModuleInput {
	return []validators.ModuleInput{
		{Title: "Getting started", Lessons: []validators.LessonInput{
			{Title: "Install Go", Type: courseModels.LessonText},
			{Title: "Hello world", Type: courseModels.LessonVideo},
		}},
		{Title: "HTTP basics", Lessons: []validators.LessonInput{
			{Title: "net/http tour", Type: courseModels.LessonText},
		}},
	}
}

func ptr[T any](v T) *T { return &v }

func TestDemandLevel(t *testing.T) {
	cases := []struct {
		name          string
		base, current *float64
		want          *string
	}{
		{"high", ptr(100.0), ptr(65.0), ptr(courseModels.DemandHigh)},
		{"medium", ptr(100.0), ptr(85.0), ptr(courseModels.DemandMedium)},
		{"low", ptr(100.0), ptr(95.0), ptr(courseModels.DemandLow)},
		{"boundary 70 is medium", ptr(100.0), ptr(70.0), ptr(courseModels.DemandMedium)},
		{"boundary 90 is low", ptr(100.0), ptr(90.0), ptr(courseModels.DemandLow)},
		{"missing base", nil, ptr(50.0), nil},
		{"missing current", ptr(100.0), nil, nil},
		{"zero base", ptr(0.0), ptr(0.0), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DemandLevel(tc.base, tc.current))
		})
	}
}

func TestCreateCourseRejectsNonTutor(t *testing.T) {
	f := newFixture(t)
	student := Session{UserID: 99, Role: models.RoleStudent}

	_, err := f.actions.CreateCourse(context.Background(), student, courseInput(), moduleInputs())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, f.count(t, &courseModels.Course{}))
	assert.Empty(t, f.notifier.sent)
}

func TestCreateCourseWithoutProfileFailsGenerically(t *testing.T) {
	f := newFixture(t)
	noProfile := f.addTutor(t, "grace@example.com", false)

	_, err := f.actions.CreateCourse(context.Background(), noProfile, courseInput(), moduleInputs())
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "Failed to create course", actionErr.Message)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, f.count(t, &courseModels.Course{}))
	assert.Zero(t, f.count(t, &courseModels.CourseModule{}))
	assert.Empty(t, f.notifier.sent)
}

func TestCreateCourseSurfacesFirstValidationIssue(t *testing.T) {
	f := newFixture(t)
	in := courseInput()
	in.Title = "Go"

	_, err := f.actions.CreateCourse(context.Background(), f.tutor, in, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title must be at least 5 characters long", verr.Message)

	mods := moduleInputs()
	mods[1].Lessons[0].Type = "PODCAST"
	_, err = f.actions.CreateCourse(context.Background(), f.tutor, courseInput(), mods)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "module 2: lessons[0].type must be one of: VIDEO, TEXT, QUIZ, ASSIGNMENT", verr.Message)
	assert.Zero(t, f.count(t, &courseModels.Course{}))
}

func TestCreateCourseWritesOutline(t *testing.T) {
	f := newFixture(t)

	course, err := f.actions.CreateCourse(context.Background(), f.tutor, courseInput(), moduleInputs())
	require.NoError(t, err)

	assert.Equal(t, "practical-go-services", course.Slug)
	assert.Equal(t, f.tutor.UserID, course.CreatorID)
	require.NotNil(t, course.DemandLevel)
	assert.Equal(t, courseModels.DemandHigh, *course.DemandLevel)
	assert.Equal(t, courseModels.StatusDraft, course.Status)
	assert.Len(t, course.Tags, 2)
	require.Len(t, course.Modules, 2)
	assert.Equal(t, 1, course.Modules[0].SortOrder)
	assert.Equal(t, 2, course.Modules[1].SortOrder)
	assert.Equal(t, 2, course.Modules[0].Lessons[1].SortOrder)
	assert.Equal(t, course.ID, course.Modules[1].Lessons[0].CourseID)

	assert.EqualValues(t, 2, f.count(t, &courseModels.CourseTag{}))
	assert.EqualValues(t, 2, f.count(t, &courseModels.CourseModule{}))
	assert.EqualValues(t, 3, f.count(t, &courseModels.Lesson{}))
	assert.Equal(t, []string{realtime.CourseRoom(course.ID)}, f.rt.joins[f.tutor.UserID])
}

func TestCreateUnpublishedCourseNotifiesOnlyCreator(t *testing.T) {
	f := newFixture(t)

	_, err := f.actions.CreateCourse(context.Background(), f.tutor, courseInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.count("user"))
	assert.Equal(t, 0, f.notifier.count("role"))
	assert.Equal(t, f.tutor.UserID, f.notifier.sent[0].target)
}

func TestCreatePublishedCourseBroadcastsOnceToStudents(t *testing.T) {
	f := newFixture(t)
	in := courseInput()
	in.IsPublished = true

	course, err := f.actions.CreateCourse(context.Background(), f.tutor, in, moduleInputs())
	require.NoError(t, err)
	assert.True(t, course.IsPublished)
	assert.Equal(t, courseModels.StatusPublished, course.Status)
	assert.NotNil(t, course.PublishedAt)

	assert.Equal(t, 1, f.notifier.count("user"))
	assert.Equal(t, 1, f.notifier.count("role"))
	assert.Len(t, f.notifier.sent, 2)
	for _, s := range f.notifier.sent {
		if s.kind == "role" {
			assert.Equal(t, models.RoleStudent, s.target)
			assert.Equal(t, models.NotificationCoursePublished, s.msg.Type)
		}
	}
}

func TestCreateCourseSkipsTagWritesWhenEmpty(t *testing.T) {
	f := newFixture(t)
	tagWrites := 0
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:count_tags", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "course_tags" {
			tagWrites++
		}
	}))
	in := courseInput()
	in.Tags = nil

	course, err := f.actions.CreateCourse(context.Background(), f.tutor, in, nil)
	require.NoError(t, err)
	assert.Empty(t, course.Tags)
	assert.Zero(t, tagWrites)
	assert.Zero(t, f.count(t, &courseModels.CourseTag{}))
}

func TestCreateCourseRollsBackOnLessonFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_lessons", func(tx *gorm.DB) {
		if tx.Statement.Schema != nil && tx.Statement.Schema.Table == "lessons" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := f.actions.CreateCourse(context.Background(), f.tutor, courseInput(), moduleInputs())
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "Failed to create course", actionErr.Message)

	assert.Zero(t, f.count(t, &courseModels.Course{}))
	assert.Zero(t, f.count(t, &courseModels.CourseTag{}))
	assert.Zero(t, f.count(t, &courseModels.CourseModule{}))
	assert.Zero(t, f.count(t, &courseModels.Lesson{}))
	assert.Empty(t, f.notifier.sent)
}

func TestCreateCourseTrimsBeforeValidating(t *testing.T) {
	f := newFixture(t)
	in := courseInput()
	in.Title = "   Go   "

	_, err := f.actions.CreateCourse(context.Background(), f.tutor, in, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title must be at least 5 characters long", verr.Message)
	assert.Zero(t, f.count(t, &courseModels.Course{}))

	in.Title = "  Practical Go Services  "
	course, err := f.actions.CreateCourse(context.Background(), f.tutor, in, nil)
	require.NoError(t, err)
	assert.Equal(t, "Practical Go Services", course.Title)
}

func TestNotificationFailuresDoNotFailActions(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("dispatcher unavailable")
	in := courseInput()
	in.IsPublished = true

	course, err := f.actions.CreateCourse(context.Background(), f.tutor, in, moduleInputs())
	require.NoError(t, err)
	require.NotNil(t, course)
	assert.NotZero(t, course.ID)
	assert.Equal(t, 1, f.notifier.count("user"))
	assert.Equal(t, 1, f.notifier.count("role"))
	assert.EqualValues(t, 1, f.count(t, &courseModels.Course{}))

	module, err := f.actions.AddModuleToCourse(context.Background(), f.tutor, course.ID, validators.ModuleInput{Title: "Deployment"})
	require.NoError(t, err)
	require.NotNil(t, module)
	assert.Equal(t, 1, f.notifier.count("course"))
	assert.EqualValues(t, 3, f.count(t, &courseModels.CourseModule{}))
}

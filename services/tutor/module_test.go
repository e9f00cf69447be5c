package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/realtime"
	"learnhub/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) createCourse(t *testing.T, s Session, published bool) *courseModels.Course {
	t.Helper()
	in := courseInput()
	in.IsPublished = published
	course, err := f.actions.CreateCourse(context.Background(), s, in, moduleInputs())
	require.NoError(t, err)
	f.notifier.sent = nil
	f.rt.events = nil
	return course
}

func TestAddModuleAppendsAndNotifiesCourse(t *testing.T) {
	f := newFixture(t)
	course := f.createCourse(t, f.tutor, true)
	f.rt.sizes[realtime.CourseRoom(course.ID)] = 4

	module, err := f.actions.AddModuleToCourse(context.Background(), f.tutor, course.ID, validators.ModuleInput{
		Title:   "Testing",
		Lessons: []validators.LessonInput{{Title: "Table tests", Type: courseModels.LessonText}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, module.SortOrder)
	require.Len(t, module.Lessons, 1)
	assert.EqualValues(t, 4, f.count(t, &courseModels.Lesson{}))

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "course", f.notifier.sent[0].kind)
	assert.Equal(t, course.ID, f.notifier.sent[0].target)
	require.Len(t, f.rt.events, 1)
	assert.Equal(t, realtime.EventModuleAdded, f.rt.events[0].Event)
	assert.Equal(t, realtime.CourseRoom(course.ID), f.rt.events[0].Room)
}

func TestAddModuleValidatesAfterOwnership(t *testing.T) {
	f := newFixture(t)
	course := f.createCourse(t, f.tutor, false)
	other := f.addTutor(t, "mallory@example.com", true)

	_, err := f.actions.AddModuleToCourse(context.Background(), other, course.ID, validators.ModuleInput{Title: "x"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.actions.AddModuleToCourse(context.Background(), f.tutor, course.ID, validators.ModuleInput{Title: "x"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title must be at least 3 characters long", verr.Message)

	_, err = f.actions.AddModuleToCourse(context.Background(), f.tutor, course.ID+100, validators.ModuleInput{Title: "Valid"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveModuleByNonCreatorIsUnauthorized(t *testing.T) {
	f := newFixture(t)
	course := f.createCourse(t, f.tutor, false)
	other := f.addTutor(t, "mallory@example.com", true)
	moduleID := course.Modules[0].ID

	err := f.actions.RemoveModuleFromCourse(context.Background(), other, course.ID, moduleID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualValues(t, 2, f.count(t, &courseModels.CourseModule{}))
	assert.Empty(t, f.notifier.sent)

	err = f.actions.RemoveModuleFromCourse(context.Background(), Session{UserID: f.tutor.UserID, Role: models.RoleStudent}, course.ID, moduleID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRemoveModuleDeletesLessons(t *testing.T) {
	f := newFixture(t)
	course := f.createCourse(t, f.tutor, false)

	require.NoError(t, f.actions.RemoveModuleFromCourse(context.Background(), f.tutor, course.ID, course.Modules[0].ID))
	assert.EqualValues(t, 1, f.count(t, &courseModels.CourseModule{}))
	assert.EqualValues(t, 1, f.count(t, &courseModels.Lesson{}))
	assert.Equal(t, 1, f.notifier.count("course"))
	assert.Equal(t, realtime.EventModuleRemoved, f.rt.events[0].Event)

	err := f.actions.RemoveModuleFromCourse(context.Background(), f.tutor, course.ID, course.Modules[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLessonLifecycle(t *testing.T) {
	f := newFixture(t)
	course := f.createCourse(t, f.tutor, false)
	module := course.Modules[1]
	ctx := context.Background()

	lesson, err := f.actions.AddLessonToModule(ctx, f.tutor, module.ID, validators.LessonInput{Title: "Routing", Type: courseModels.LessonVideo})
	require.NoError(t, err)
	assert.Equal(t, 2, lesson.SortOrder)
	assert.Equal(t, course.ID, lesson.CourseID)

	title := "Routing with ServeMux"
	updated, err := f.actions.UpdateLesson(ctx, f.tutor, module.ID, lesson.ID, validators.LessonUpdateInput{Title: &title, IsPreview: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.True(t, updated.IsPreview)

	other := f.addTutor(t, "mallory@example.com", true)
	assert.ErrorIs(t, f.actions.RemoveLessonFromModule(ctx, other, module.ID, lesson.ID), ErrUnauthorized)
	assert.ErrorIs(t, f.actions.RemoveLessonFromModule(ctx, f.tutor, course.Modules[0].ID, lesson.ID), ErrNotFound)

	require.NoError(t, f.actions.RemoveLessonFromModule(ctx, f.tutor, module.ID, lesson.ID))
	assert.EqualValues(t, 3, f.count(t, &courseModels.Lesson{}))
	assert.Equal(t, 2, f.notifier.count("course"))
}

func TestUpdateCourseRecomputesDerivedFields(t *testing.T) {
	f := newFixture(t)
	course := f.createCourse(t, f.tutor, true)

	title := "Production Go Services"
	updated, err := f.actions.UpdateCourse(context.Background(), f.tutor, course.ID, validators.CourseUpdateInput{
		Title:        &title,
		CurrentPrice: ptr(95.0),
		Tags:         &[]string{},
	})
	require.NoError(t, err)
	assert.Equal(t, "production-go-services", updated.Slug)
	require.NotNil(t, updated.DemandLevel)
	assert.Equal(t, courseModels.DemandLow, *updated.DemandLevel)
	assert.Zero(t, f.count(t, &courseModels.CourseTag{}))
	assert.Equal(t, 1, f.notifier.count("course"))
}

func TestPublishCourseAnnouncesOnlyOnTransition(t *testing.T) {
	f := newFixture(t)
	course := f.createCourse(t, f.tutor, false)
	ctx := context.Background()

	published, err := f.actions.PublishCourse(ctx, f.tutor, course.ID, true)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	assert.Equal(t, 1, f.notifier.count("role"))

	_, err = f.actions.PublishCourse(ctx, f.tutor, course.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.count("role"))

	_, err = f.actions.PublishCourse(ctx, f.tutor, course.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.count("course"))

	var stored courseModels.Course
	require.NoError(t, f.db.First(&stored, course.ID).Error)
	assert.False(t, stored.IsPublished)
	assert.Equal(t, courseModels.StatusDraft, stored.Status)
}

func TestDeleteCourseCascades(t *testing.T) {
	f := newFixture(t)
	course := f.createCourse(t, f.tutor, false)

	require.NoError(t, f.actions.DeleteCourse(context.Background(), f.tutor, course.ID))
	assert.Zero(t, f.count(t, &courseModels.Course{}))
	assert.Zero(t, f.count(t, &courseModels.CourseModule{}))
	assert.Zero(t, f.count(t, &courseModels.Lesson{}))
	assert.Zero(t, f.count(t, &courseModels.CourseTag{}))

	assert.ErrorIs(t, f.actions.DeleteCourse(context.Background(), f.tutor, course.ID), ErrNotFound)
}

func TestReorderModules(t *testing.T) {
	f := newFixture(t)
	course := f.createCourse(t, f.tutor, false)
	first, second := course.Modules[0].ID, course.Modules[1].ID
	ctx := context.Background()

	var verr *ValidationError
	require.ErrorAs(t, f.actions.ReorderModules(ctx, f.tutor, course.ID, []uint{first}), &verr)

	require.NoError(t, f.actions.ReorderModules(ctx, f.tutor, course.ID, []uint{second, first}))
	got, err := f.actions.GetTutorCourse(ctx, f.tutor, course.ID)
	require.NoError(t, err)
	require.Len(t, got.Modules, 2)
	assert.Equal(t, second, got.Modules[0].ID)
	assert.Len(t, got.Modules[1].Lessons, 2)
}

func TestListTutorCoursesOnlyOwn(t *testing.T) {
	f := newFixture(t)
	f.createCourse(t, f.tutor, false)
	f.createCourse(t, f.tutor, true)
	other := f.addTutor(t, "mallory@example.com", true)
	f.createCourse(t, other, false)

	courses, total, err := f.actions.ListTutorCourses(context.Background(), f.tutor, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, courses, 1)
}

func TestUploadCourseFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.actions.UploadCourseFile(ctx, Session{UserID: 5, Role: models.RoleStudent}, strings.NewReader("x"), "a.png", "image/png", "image")
	assert.ErrorIs(t, err, ErrUnauthorized)

	var verr *ValidationError
	_, err = f.actions.UploadCourseFile(ctx, f.tutor, strings.NewReader("x"), "a.mp3", "audio/mpeg", "audio")
	require.ErrorAs(t, err, &verr)

	url, err := f.actions.UploadCourseFile(ctx, f.tutor, strings.NewReader("png-bytes"), "a.png", "image/png", "image")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/image/a.png", url)
	assert.Equal(t, f.tutor.Token, f.uploader.token)
	assert.Equal(t, "png-bytes", f.uploader.body)

	f.uploader.err = errors.New("bucket unavailable")
	_, err = f.actions.UploadCourseFile(ctx, f.tutor, strings.NewReader("x"), "a.png", "image/png", "image")
	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	assert.Equal(t, "Failed to upload file", actionErr.Message)
}

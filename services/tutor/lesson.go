package tutor

import (
	"context"
	"errors"
	"fmt"

	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/realtime"
	"learnhub/services/notification"
	"learnhub/validators"

	"gorm.io/gorm"
)

func newLesson(courseID, moduleID uint, in validators.LessonInput, position int) courseModels.Lesson {
	lesson := courseModels.Lesson{
		CourseID:        courseID,
		ModuleID:        moduleID,
		Title:           in.Title,
		Description:     in.Description,
		Type:            in.Type,
		Content:         in.Content,
		VideoURL:        in.VideoURL,
		DurationMinutes: in.DurationMinutes,
		SortOrder:       in.SortOrder,
		IsPublished:     in.IsPublished,
		IsPreview:       in.IsPreview,
	}
	if lesson.SortOrder == 0 {
		lesson.SortOrder = position
	}
	return lesson
}

// loadOwnedModule resolves a module and checks that s created its course.
func (a *Actions) loadOwnedModule(ctx context.Context, s Session, moduleID uint) (*courseModels.CourseModule, *courseModels.Course, error) {
	if !a.isTutor(s) {
		return nil, nil, ErrUnauthorized
	}
	var module courseModels.CourseModule
	if err := a.db.WithContext(ctx).First(&module, moduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, a.fail("Failed to load module", err, "module_id", moduleID)
	}
	course, err := a.loadOwnedCourse(ctx, s, module.CourseID)
	if err != nil {
		return nil, nil, err
	}
	return &module, course, nil
}

// AddLessonToModule appends a lesson to a module of an owned course.
func (a *Actions) AddLessonToModule(ctx context.Context, s Session, moduleID uint, in validators.LessonInput) (*courseModels.Lesson, error) {
	module, course, err := a.loadOwnedModule(ctx, s, moduleID)
	if err != nil {
		return nil, err
	}
	if err := a.validate(in); err != nil {
		return nil, err
	}

	position := in.SortOrder
	if position == 0 {
		if position, err = nextSortOrder(a.db.WithContext(ctx), &courseModels.Lesson{}, "module_id", module.ID); err != nil {
			return nil, a.fail("Failed to add lesson", err, "module_id", moduleID)
		}
	}
	lesson := newLesson(course.ID, module.ID, in, position)
	if err := a.db.WithContext(ctx).Create(&lesson).Error; err != nil {
		return nil, a.fail("Failed to add lesson", err, "module_id", moduleID)
	}

	a.publish(ctx, course.ID, realtime.EventLessonAdded, lesson)
	a.notifyCourse(ctx, course.ID, notification.Message{
		Type:    models.NotificationCourseUpdated,
		Title:   "New lesson available",
		Message: fmt.Sprintf("%q was added to %q.", lesson.Title, module.Title),
		Link:    "/courses/" + course.Slug,
		Payload: map[string]any{"module_id": module.ID, "lesson_id": lesson.ID},
	})
	return &lesson, nil
}

func (a *Actions) loadModuleLesson(ctx context.Context, moduleID, lessonID uint) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	err := a.db.WithContext(ctx).Where("id = ? AND module_id = ?", lessonID, moduleID).First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, a.fail("Failed to load lesson", err, "lesson_id", lessonID)
	}
	return &lesson, nil
}

// RemoveLessonFromModule deletes one lesson of an owned course.
func (a *Actions) RemoveLessonFromModule(ctx context.Context, s Session, moduleID, lessonID uint) error {
	module, course, err := a.loadOwnedModule(ctx, s, moduleID)
	if err != nil {
		return err
	}
	lesson, err := a.loadModuleLesson(ctx, module.ID, lessonID)
	if err != nil {
		return err
	}
	if err := a.db.WithContext(ctx).Delete(lesson).Error; err != nil {
		return a.fail("Failed to remove lesson", err, "lesson_id", lessonID)
	}

	a.publish(ctx, course.ID, realtime.EventLessonRemoved, map[string]interface{}{"module_id": module.ID, "lesson_id": lesson.ID})
	a.notifyCourse(ctx, course.ID, notification.Message{
		Type:    models.NotificationCourseUpdated,
		Title:   "Lesson removed",
		Message: fmt.Sprintf("%q was removed from %q.", lesson.Title, module.Title),
		Link:    "/courses/" + course.Slug,
	})
	return nil
}

func (a *Actions) UpdateLesson(ctx context.Context, s Session, moduleID, lessonID uint, in validators.LessonUpdateInput) (*courseModels.Lesson, error) {
	module, course, err := a.loadOwnedModule(ctx, s, moduleID)
	if err != nil {
		return nil, err
	}
	if err := a.validate(in); err != nil {
		return nil, err
	}
	lesson, err := a.loadModuleLesson(ctx, module.ID, lessonID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		lesson.Title = *in.Title
	}
	if in.Description != nil {
		lesson.Description = *in.Description
	}
	if in.Type != nil {
		lesson.Type = *in.Type
	}
	if in.Content != nil {
		lesson.Content = *in.Content
	}
	if in.VideoURL != nil {
		lesson.VideoURL = *in.VideoURL
	}
	if in.DurationMinutes != nil {
		lesson.DurationMinutes = *in.DurationMinutes
	}
	if in.SortOrder != nil {
		lesson.SortOrder = *in.SortOrder
	}
	if in.IsPublished != nil {
		lesson.IsPublished = *in.IsPublished
	}
	if in.IsPreview != nil {
		lesson.IsPreview = *in.IsPreview
	}
	if err := a.db.WithContext(ctx).Save(lesson).Error; err != nil {
		return nil, a.fail("Failed to update lesson", err, "lesson_id", lessonID)
	}

	a.publish(ctx, course.ID, realtime.EventCourseUpdated, lesson)
	return lesson, nil
}

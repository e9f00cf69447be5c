package tutor

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/realtime"
	"learnhub/services/notification"
	"learnhub/validators"

	"gorm.io/gorm"
)

// createModule writes a module and its lessons with tx. position is used when
// no explicit sort order was given.
func createModule(tx *gorm.DB, courseID uint, in validators.ModuleInput, position int) (*courseModels.CourseModule, error) {
	module := courseModels.CourseModule{
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
		SortOrder:   in.SortOrder,
	}
	if module.SortOrder == 0 {
		module.SortOrder = position
	}
	if err := tx.Omit("Lessons").Create(&module).Error; err != nil {
		return nil, fmt.Errorf("create module %q: %w", in.Title, err)
	}

	for j, lin := range in.Lessons {
		lesson := newLesson(courseID, module.ID, lin, j+1)
		if err := tx.Create(&lesson).Error; err != nil {
			return nil, fmt.Errorf("create lesson %q: %w", lin.Title, err)
		}
		module.Lessons = append(module.Lessons, lesson)
	}
	return &module, nil
}

func nextSortOrder(tx *gorm.DB, model interface{}, column string, id uint) (int, error) {
	var maxOrder int
	err := tx.Model(model).Where(column+" = ?", id).Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder).Error
	return maxOrder + 1, err
}

// AddModuleToCourse appends a module (and any nested lessons) to an owned course.
func (a *Actions) AddModuleToCourse(ctx context.Context, s Session, courseID uint, in validators.ModuleInput) (*courseModels.CourseModule, error) {
	course, err := a.loadOwnedCourse(ctx, s, courseID)
	if err != nil {
		return nil, err
	}
	if err := a.validate(in); err != nil {
		return nil, err
	}

	var module *courseModels.CourseModule
	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		position, err := nextSortOrder(tx, &courseModels.CourseModule{}, "course_id", course.ID)
		if err != nil {
			return err
		}
		module, err = createModule(tx, course.ID, in, position)
		return err
	})
	if err != nil {
		return nil, a.fail("Failed to add module", err, "course_id", courseID)
	}

	a.publish(ctx, course.ID, realtime.EventModuleAdded, module)
	a.notifyCourse(ctx, course.ID, notification.Message{
		Type:    models.NotificationCourseUpdated,
		Title:   "New module added",
		Message: fmt.Sprintf("%q was added to %q.", module.Title, course.Title),
		Link:    "/courses/" + course.Slug,
		Payload: map[string]any{"module_id": module.ID},
	})
	return module, nil
}

// loadCourseModule finds moduleID inside an owned course.
func (a *Actions) loadCourseModule(ctx context.Context, courseID, moduleID uint) (*courseModels.CourseModule, error) {
	var module courseModels.CourseModule
	err := a.db.WithContext(ctx).Where("id = ? AND course_id = ?", moduleID, courseID).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, a.fail("Failed to load module", err, "module_id", moduleID)
	}
	return &module, nil
}

// RemoveModuleFromCourse deletes a module and its lessons.
func (a *Actions) RemoveModuleFromCourse(ctx context.Context, s Session, courseID, moduleID uint) error {
	course, err := a.loadOwnedCourse(ctx, s, courseID)
	if err != nil {
		return err
	}
	module, err := a.loadCourseModule(ctx, course.ID, moduleID)
	if err != nil {
		return err
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", module.ID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(module).Error
	})
	if err != nil {
		return a.fail("Failed to remove module", err, "module_id", moduleID)
	}

	a.publish(ctx, course.ID, realtime.EventModuleRemoved, map[string]interface{}{"module_id": module.ID})
	a.notifyCourse(ctx, course.ID, notification.Message{
		Type:    models.NotificationCourseUpdated,
		Title:   "Module removed",
		Message: fmt.Sprintf("%q was removed from %q.", module.Title, course.Title),
		Link:    "/courses/" + course.Slug,
	})
	return nil
}

func (a *Actions) UpdateModule(ctx context.Context, s Session, courseID, moduleID uint, in validators.ModuleUpdateInput) (*courseModels.CourseModule, error) {
	course, err := a.loadOwnedCourse(ctx, s, courseID)
	if err != nil {
		return nil, err
	}
	if err := a.validate(in); err != nil {
		return nil, err
	}
	module, err := a.loadCourseModule(ctx, course.ID, moduleID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		module.Title = *in.Title
	}
	if in.Description != nil {
		module.Description = *in.Description
	}
	if in.SortOrder != nil {
		module.SortOrder = *in.SortOrder
	}
	if err := a.db.WithContext(ctx).Omit("Lessons").Save(module).Error; err != nil {
		return nil, a.fail("Failed to update module", err, "module_id", moduleID)
	}

	a.publish(ctx, course.ID, realtime.EventCourseUpdated, module)
	return module, nil
}

// ReorderModules assigns sort orders following ids, which must name every
// module of the course exactly once.
func (a *Actions) ReorderModules(ctx context.Context, s Session, courseID uint, ids []uint) error {
	course, err := a.loadOwnedCourse(ctx, s, courseID)
	if err != nil {
		return err
	}
	if err := a.validate(validators.ReorderInput{ModuleIDs: ids}); err != nil {
		return err
	}

	var existing []uint
	if err := a.db.WithContext(ctx).Model(&courseModels.CourseModule{}).Where("course_id = ?", course.ID).Pluck("id", &existing).Error; err != nil {
		return a.fail("Failed to reorder modules", err, "course_id", courseID)
	}
	if !sameIDs(existing, ids) {
		return &ValidationError{Message: "module_ids must list every module of the course exactly once"}
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&courseModels.CourseModule{}).Where("id = ?", id).Update("sort_order", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return a.fail("Failed to reorder modules", err, "course_id", courseID)
	}

	a.publish(ctx, course.ID, realtime.EventCourseUpdated, map[string]interface{}{"module_order": ids})
	return nil
}

func sameIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

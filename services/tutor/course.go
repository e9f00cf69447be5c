package tutor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/realtime"
	"learnhub/services/notification"
	"learnhub/utils"
	"learnhub/validators"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateCourse creates a course with its tags, modules and lessons in one
// transaction, then notifies the creator and, for published courses, every
// student.
func (a *Actions) CreateCourse(ctx context.Context, s Session, data validators.CourseInput, modules []validators.ModuleInput) (*courseModels.Course, error) {
	if !a.isTutor(s) {
		return nil, ErrUnauthorized
	}
	data.Title = strings.TrimSpace(data.Title)
	data.Description = strings.TrimSpace(data.Description)
	if err := a.validate(data); err != nil {
		return nil, err
	}
	for i := range modules {
		if err := validators.Validate(modules[i]); err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("module %d: %s", i+1, validators.FirstIssue(err))}
		}
	}

	var profile models.TutorProfile
	if err := a.db.WithContext(ctx).Where("user_id = ?", s.UserID).First(&profile).Error; err != nil {
		return nil, a.fail("Failed to create course", err, "user_id", s.UserID)
	}

	course := courseModels.Course{
		Title:            data.Title,
		Slug:             utils.Slugify(data.Title),
		Description:      data.Description,
		ShortDescription: data.ShortDescription,
		CategoryID:       data.CategoryID,
		Level:            data.Level,
		Language:         data.Language,
		ThumbnailURL:     data.ThumbnailURL,
		PreviewVideoURL:  data.PreviewVideoURL,
		BasePrice:        data.BasePrice,
		CurrentPrice:     data.CurrentPrice,
		DemandLevel:      DemandLevel(data.BasePrice, data.CurrentPrice),
		Status:           courseModels.StatusDraft,
		TutorID:          profile.ID,
		CreatorID:        s.UserID,
	}
	if data.IsPublished {
		now := time.Now()
		course.Status = courseModels.StatusPublished
		course.IsPublished = true
		course.PublishedAt = &now
	}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&course).Error; err != nil {
			return fmt.Errorf("create course: %w", err)
		}

		tags := buildTags(course.ID, data.Tags)
		if len(tags) > 0 {
			if err := tx.Create(&tags).Error; err != nil {
				return fmt.Errorf("create tags: %w", err)
			}
			course.Tags = tags
		}

		for i, in := range modules {
			module, err := createModule(tx, course.ID, in, i+1)
			if err != nil {
				return err
			}
			course.Modules = append(course.Modules, *module)
		}
		return nil
	})
	if err != nil {
		return nil, a.fail("Failed to create course", err, "user_id", s.UserID)
	}

	a.log.Info("course created", "course_id", course.ID, "creator_id", s.UserID, "modules", len(course.Modules), "published", course.IsPublished)
	if a.rooms != nil {
		if err := a.rooms.JoinUser(ctx, s.UserID, realtime.CourseRoom(course.ID)); err != nil {
			a.log.Warn("failed to join creator to course room", "course_id", course.ID, "error", err)
		}
	}

	courseID := course.ID
	a.notifyUser(ctx, s.UserID, notification.Message{
		Type:     models.NotificationCourseCreated,
		Title:    "Course created",
		Message:  fmt.Sprintf("Your course %q has been created.", course.Title),
		Link:     fmt.Sprintf("/tutor/courses/%d", course.ID),
		CourseID: &courseID,
	})
	if course.IsPublished {
		a.announce(ctx, &course)
	}
	return &course, nil
}

// announce tells every student about a newly published course.
func (a *Actions) announce(ctx context.Context, course *courseModels.Course) {
	courseID := course.ID
	a.notifyRole(ctx, models.RoleStudent, notification.Message{
		Type:     models.NotificationCoursePublished,
		Title:    "New course available",
		Message:  fmt.Sprintf("%q is now open for enrollment.", course.Title),
		Link:     "/courses/" + course.Slug,
		CourseID: &courseID,
		Payload:  map[string]any{"course_id": course.ID, "slug": course.Slug},
	})
}

func buildTags(courseID uint, names []string) []courseModels.CourseTag {
	seen := make(map[string]bool, len(names))
	tags := make([]courseModels.CourseTag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, courseModels.CourseTag{CourseID: courseID, Name: name})
	}
	return tags
}

// loadOwnedCourse returns the course when s created it.
func (a *Actions) loadOwnedCourse(ctx context.Context, s Session, courseID uint) (*courseModels.Course, error) {
	if !a.isTutor(s) {
		return nil, ErrUnauthorized
	}
	var course courseModels.Course
	if err := a.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, a.fail("Failed to load course", err, "course_id", courseID)
	}
	if course.CreatorID != s.UserID {
		a.log.Warn("course ownership check failed", "course_id", courseID, "user_id", s.UserID)
		return nil, ErrUnauthorized
	}
	return &course, nil
}

// UpdateCourse applies the set fields of in. Changing the title regenerates the
// slug and changing a price recomputes the demand level.
func (a *Actions) UpdateCourse(ctx context.Context, s Session, courseID uint, in validators.CourseUpdateInput) (*courseModels.Course, error) {
	course, err := a.loadOwnedCourse(ctx, s, courseID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	if err := a.validate(in); err != nil {
		return nil, err
	}

	if in.Title != nil {
		course.Title = *in.Title
		course.Slug = utils.Slugify(course.Title)
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.ShortDescription != nil {
		course.ShortDescription = *in.ShortDescription
	}
	if in.CategoryID != nil {
		course.CategoryID = in.CategoryID
	}
	if in.Level != nil {
		course.Level = *in.Level
	}
	if in.Language != nil {
		course.Language = *in.Language
	}
	if in.ThumbnailURL != nil {
		course.ThumbnailURL = *in.ThumbnailURL
	}
	if in.PreviewVideoURL != nil {
		course.PreviewVideoURL = *in.PreviewVideoURL
	}
	if in.BasePrice != nil || in.CurrentPrice != nil {
		if in.BasePrice != nil {
			course.BasePrice = in.BasePrice
		}
		if in.CurrentPrice != nil {
			course.CurrentPrice = in.CurrentPrice
		}
		course.DemandLevel = DemandLevel(course.BasePrice, course.CurrentPrice)
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(course).Error; err != nil {
			return fmt.Errorf("save course: %w", err)
		}
		if in.Tags == nil {
			return nil
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&courseModels.CourseTag{}).Error; err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		tags := buildTags(course.ID, *in.Tags)
		if len(tags) == 0 {
			return nil
		}
		if err := tx.Create(&tags).Error; err != nil {
			return fmt.Errorf("create tags: %w", err)
		}
		course.Tags = tags
		return nil
	})
	if err != nil {
		return nil, a.fail("Failed to update course", err, "course_id", courseID)
	}

	a.publish(ctx, course.ID, realtime.EventCourseUpdated, course)
	if course.IsPublished {
		a.notifyCourse(ctx, course.ID, notification.Message{
			Type:    models.NotificationCourseUpdated,
			Title:   "Course updated",
			Message: fmt.Sprintf("%q has been updated.", course.Title),
			Link:    "/courses/" + course.Slug,
		})
	}
	return course, nil
}

// PublishCourse switches the published flag. Going live announces the course
// to students; taking it down informs enrolled students.
func (a *Actions) PublishCourse(ctx context.Context, s Session, courseID uint, publish bool) (*courseModels.Course, error) {
	course, err := a.loadOwnedCourse(ctx, s, courseID)
	if err != nil {
		return nil, err
	}
	if course.IsPublished == publish {
		return course, nil
	}

	updates := map[string]interface{}{"is_published": publish, "status": courseModels.StatusDraft}
	if publish {
		now := time.Now()
		updates["status"] = courseModels.StatusPublished
		updates["published_at"] = &now
		course.PublishedAt = &now
	}
	if err := a.db.WithContext(ctx).Model(course).Updates(updates).Error; err != nil {
		return nil, a.fail("Failed to update course status", err, "course_id", courseID)
	}
	course.IsPublished = publish
	course.Status = updates["status"].(string)

	a.log.Info("course publish state changed", "course_id", course.ID, "published", publish)
	a.publish(ctx, course.ID, realtime.EventCoursePublished, map[string]interface{}{"course_id": course.ID, "is_published": publish})
	if publish {
		a.announce(ctx, course)
	} else {
		a.notifyCourse(ctx, course.ID, notification.Message{
			Type:    models.NotificationCourseUpdated,
			Title:   "Course unpublished",
			Message: fmt.Sprintf("%q is temporarily unavailable.", course.Title),
		})
	}
	return course, nil
}

// DeleteCourse soft deletes a course together with its modules, lessons and tags.
func (a *Actions) DeleteCourse(ctx context.Context, s Session, courseID uint) error {
	course, err := a.loadOwnedCourse(ctx, s, courseID)
	if err != nil {
		return err
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", course.ID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&courseModels.CourseModule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&courseModels.CourseTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(course).Error
	})
	if err != nil {
		return a.fail("Failed to delete course", err, "course_id", courseID)
	}
	a.log.Info("course deleted", "course_id", course.ID, "creator_id", s.UserID)
	a.notifyCourse(ctx, course.ID, notification.Message{
		Type:    models.NotificationCourseUpdated,
		Title:   "Course removed",
		Message: fmt.Sprintf("%q has been removed by its tutor.", course.Title),
	})
	return nil
}

// ListTutorCourses pages through the courses created by s, newest first.
func (a *Actions) ListTutorCourses(ctx context.Context, s Session, page, limit int) ([]courseModels.Course, int64, error) {
	if !a.isTutor(s) {
		return nil, 0, ErrUnauthorized
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = utils.DefaultPageSize
	}

	query := a.db.WithContext(ctx).Model(&courseModels.Course{}).Where("creator_id = ?", s.UserID).Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, a.fail("Failed to fetch courses", err, "user_id", s.UserID)
	}

	var courses []courseModels.Course
	err := query.Preload("Tags").
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, a.fail("Failed to fetch courses", err, "user_id", s.UserID)
	}
	return courses, total, nil
}

// GetTutorCourse returns one owned course with its full outline.
func (a *Actions) GetTutorCourse(ctx context.Context, s Session, courseID uint) (*courseModels.Course, error) {
	if _, err := a.loadOwnedCourse(ctx, s, courseID); err != nil {
		return nil, err
	}
	var course courseModels.Course
	err := a.db.WithContext(ctx).
		Preload("Tags").
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc, id asc") }).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc, id asc") }).
		First(&course, courseID).Error
	if err != nil {
		return nil, a.fail("Failed to load course", err, "course_id", courseID)
	}
	return &course, nil
}

package database

import (
	"fmt"
	"testing"

	"learnhub/config"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "d"}
	dsn, err := DSN(cfg)
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=Local", dsn)

	cfg.DBDriver = "postgres"
	dsn, err = DSN(cfg)
	require.NoError(t, err)
	assert.Contains(t, dsn, "host=h user=u password=p dbname=d port=3306")

	cfg.DBDriver = "oracle"
	_, err = DSN(cfg)
	assert.Error(t, err)
}

func TestOpenTestDBMigrates(t *testing.T) {
	db := OpenTestDB(t)

	user := models.User{Name: "Ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, models.RoleStudent, got.Role)
}

func TestEnrollmentAndReviewUniquePerStudent(t *testing.T) {
	db := OpenTestDB(t)

	student := models.User{Name: "Ada", Email: "ada@example.com", Password: "x"}
	tutor := models.User{Name: "Grace", Email: "grace@example.com", Password: "x", Role: models.RoleTutor}
	require.NoError(t, db.Create(&student).Error)
	require.NoError(t, db.Create(&tutor).Error)
	course := courseModels.Course{Title: "Compilers in Go", TutorID: tutor.ID, CreatorID: tutor.ID}
	require.NoError(t, db.Create(&course).Error)

	require.NoError(t, db.Omit("Course").Create(&courseModels.Enrollment{UserID: student.ID, CourseID: course.ID}).Error)
	err := db.Omit("Course").Create(&courseModels.Enrollment{UserID: student.ID, CourseID: course.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, db.Omit("User").Create(&courseModels.Review{UserID: student.ID, CourseID: course.ID, Rating: 5}).Error)
	err = db.Omit("User").Create(&courseModels.Review{UserID: student.ID, CourseID: course.ID, Rating: 3}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var reviews int64
	require.NoError(t, db.Model(&courseModels.Review{}).Count(&reviews).Error)
	assert.EqualValues(t, 1, reviews)
}

type recordingTB struct {
	cleanups []func()
	fatals   []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Fatalf(format string, args ...any) {
	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
}

func (r *recordingTB) Cleanup(f func()) { r.cleanups = append(r.cleanups, f) }

func TestOpenTestDBClosesOnCleanup(t *testing.T) {
	rec := &recordingTB{}
	db := OpenTestDB(rec)
	require.Empty(t, rec.fatals)
	require.Len(t, rec.cleanups, 1)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	rec.cleanups[0]()
	assert.Error(t, sqlDB.Ping())
}

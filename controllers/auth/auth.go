package authController

import (
	"errors"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/models"
	"learnhub/utils"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins   = 3
	loginBlockPeriod  = time.Minute
	failedLoginWindow = 15 * time.Minute
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*validators.SignupInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		logger.AppLogger.Error("error hashing password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	role := reqData.Role
	if role == "" {
		role = models.RoleStudent
	}
	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Role:     role,
		Password: string(hashedPassword),
	}

	if err := db.Create(&newUser).Error; err != nil {
		logger.AppLogger.Error("error saving user", "email", reqData.Email, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	token, err := middleware.GenerateJWT(newUser.ID, newUser.Name, newUser.Role, newUser.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	logger.AppLogger.Info("user signed up", "user_id", newUser.ID, "role", newUser.Role)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Signup successful.", fiber.Map{
		"user":  newUser,
		"token": token,
	})
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*validators.LoginInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.AppLogger.Error("login lookup failed", "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	now := time.Now()

	// Check if the user is blocked
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > failedLoginWindow {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now

		// Block user after 3 failed attempts
		if user.FailedLoginAttempts >= maxFailedLogins {
			unblockTime := now.Add(loginBlockPeriod)
			user.IsBlocked = true
			user.BlockedUntil = &unblockTime
			user.FailedLoginAttempts = 0
			logger.AppLogger.Warn("user blocked after failed logins", "user_id", user.ID, "until", unblockTime)
		}

		if err := db.Save(&user).Error; err != nil {
			logger.AppLogger.Error("error saving failed login", "user_id", user.ID, "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wrong Password", nil)
	}

	user.LastLogin = &now
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.IsBlocked = false
	user.BlockedUntil = nil
	if err := db.Save(&user).Error; err != nil {
		logger.AppLogger.Error("error saving last login time", "user_id", user.ID, "error", err)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}
	tracking := models.LoginTracking{UserID: user.ID, IPAddress: ip, Device: c.Get("User-Agent")}
	if err := db.Create(&tracking).Error; err != nil {
		logger.AppLogger.Error("error saving login tracking", "user_id", user.ID, "error", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	logger.AppLogger.Info("user logged in", "user_id", user.ID, "ip", ip)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Me returns the authenticated user
func Me(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully.", user)
}

// LoginHistory lists the caller's successful logins, newest first.
func LoginHistory(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	page, limit, offset := utils.Pagination(c.Query("page"), c.Query("limit"))

	query := database.Database.Db.Model(&models.LoginTracking{}).Where("user_id = ?", userId)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history", nil)
	}

	var history []models.LoginTracking
	if err := query.Session(&gorm.Session{}).Order("id DESC").Offset(offset).Limit(limit).Find(&history).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"history": history,
		"pagination": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": utils.TotalPages(total, limit),
		},
	})
}

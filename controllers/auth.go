package controllers

import (
	"errors"
	"net/http"
	"time"

	"salonflow-backend/config"
	"salonflow-backend/models"
	"salonflow-backend/session"
	"salonflow-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthController issues and clears sessions. It owns the only reference to the
// session manager on the write side; everything else reads the per-request
// Session value.
type AuthController struct {
	Sessions *session.Manager
}

type RegisterInput struct {
	Email        string       `json:"email" binding:"required,email"`
	Phone        string       `json:"phone" binding:"required"`
	Name         string       `json:"name" binding:"required"`
	Password     string       `json:"password" binding:"required,min=8"`
	SalonName    string       `json:"salonName" binding:"required"`
	SalonAddress string       `json:"salonAddress"`
	WorkingHours models.JSONB `json:"workingHours"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // email or phone
	Password   string `json:"password" binding:"required"`
}

func defaultWorkingHours() models.JSONB {
	day := func(open, close string, closed bool) map[string]interface{} {
		return map[string]interface{}{"open": open, "close": close, "closed": closed}
	}
	return models.JSONB{
		"monday":    day("09:00", "20:00", false),
		"tuesday":   day("09:00", "20:00", false),
		"wednesday": day("09:00", "20:00", false),
		"thursday":  day("09:00", "20:00", false),
		"friday":    day("09:00", "20:00", false),
		"saturday":  day("09:00", "21:00", false),
		"sunday":    day("10:00", "19:00", true),
	}
}

// Register creates a salon and its owner account in one transaction.
func (a *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	var existingUser models.User
	result := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	workingHours := input.WorkingHours
	if workingHours == nil {
		workingHours = defaultWorkingHours()
	}

	salon := models.Salon{
		Name:         input.SalonName,
		Address:      input.SalonAddress,
		WorkingHours: workingHours,
	}
	user := models.User{
		Email:    input.Email,
		Phone:    input.Phone,
		Name:     input.Name,
		Password: input.Password, // hashed in BeforeCreate hook
		Role:     "owner",
		IsActive: true,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&salon).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create salon")
		return
	}
	user.SalonID = salon.ID
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	tx.Commit()

	token, err := a.Sessions.Issue(session.Session{UserID: user.ID, SalonID: salon.ID, Role: user.Role})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	a.setTokenCookie(c, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"phone":     user.Phone,
			"salonName": salon.Name,
		},
	})
}

// Login authenticates by email or phone.
func (a *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	if err := config.DB.Where("email = ? OR phone = ?", input.Identifier, input.Identifier).
		First(&user).Error; err != nil {
		// Same response for unknown identifier and bad password.
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive || !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := a.Sessions.Issue(session.Session{UserID: user.ID, SalonID: user.SalonID, Role: user.Role})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	a.setTokenCookie(c, token)

	now := time.Now()
	config.DB.Model(&user).Update("last_login", now)

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// Me returns the authenticated user with their salon.
func (a *AuthController) Me(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	var user models.User
	if err := config.DB.Preload("Salon").First(&user, "id = ?", s.UserID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"name":      user.Name,
		"phone":     user.Phone,
		"role":      user.Role,
		"salonId":   user.SalonID,
		"salonName": user.Salon.Name,
	})
}

// Logout clears the token cookie. The token itself simply expires.
func (a *AuthController) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (a *AuthController) setTokenCookie(c *gin.Context, token string) {
	maxAge := int(a.Sessions.TTL().Seconds())
	c.SetCookie("token", token, maxAge, "/", "", true, true)
}

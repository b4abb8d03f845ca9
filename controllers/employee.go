// controllers/employee.go
package controllers

import (
	"errors"
	"net/http"

	"salonflow-backend/config"
	"salonflow-backend/models"
	"salonflow-backend/session"
	"salonflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateEmployeeInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type UpdateEmployeeInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// AddEmployee adds a staff member who can be assigned to invoice line items
func AddEmployee(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	var input CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	role := input.Role
	if role == "" {
		role = "employee"
	}

	employee := models.Employee{
		SalonID:  s.SalonID,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Role:     role,
		IsActive: true,
	}

	if err := config.DB.Create(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// GetEmployees retrieves all employees for the salon
func GetEmployees(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	var employees []models.Employee
	if err := config.DB.Where("salon_id = ?", s.SalonID).
		Order("name ASC").
		Find(&employees).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}

	c.JSON(http.StatusOK, employees)
}

// UpdateEmployee updates an existing employee
func UpdateEmployee(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	var input UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var employee models.Employee
	if err := config.DB.Where("salon_id = ? AND id = ?", s.SalonID, employeeUUID).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		employee.Phone = *input.Phone
	}
	if input.Name != nil {
		employee.Name = *input.Name
	}
	if input.Email != nil {
		employee.Email = *input.Email
	}
	if input.Role != nil {
		employee.Role = *input.Role
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee soft deletes an employee. Invoice items keep the employee
// name snapshot they were created with.
func DeleteEmployee(c *gin.Context) {
	s, err := session.FromContext(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return
	}

	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", s.SalonID, employeeUUID).
		Delete(&models.Employee{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete employee")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}

package main

import (
	"os"

	"salonflow-backend/config"
	"salonflow-backend/models"
	"salonflow-backend/routes"
	"salonflow-backend/services"
	"salonflow-backend/session"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found")
	}

	config.ConnectDB()
	if err := config.DB.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Customer{},
		&models.Employee{},
		&models.Service{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.ReminderLog{},
	); err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}

	sessions, err := session.NewManager()
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize sessions")
	}

	services.NewReminderService(config.DB).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(sessions)
	logrus.WithField("port", port).Info("starting server")
	if err := r.Run(":" + port); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

package handlers

import "github.com/labstack/echo/v4"

// Register mounts every route under /gym. Credential routes carry Basic
// auth and the training type routes a JWT.
func (h *Handler) Register(e *echo.Echo, jwt, credentials, limit echo.MiddlewareFunc) {
	gym := e.Group("/gym")

	// Public
	gym.POST("/trainees", h.RegisterTrainee, limit)
	gym.POST("/trainers", h.RegisterTrainer, limit)
	gym.POST("/signin", h.Signin, limit)

	// Checked by the services
	gym.GET("/trainees/me", h.GetTrainee, credentials)
	gym.PUT("/trainees/me", h.UpdateTrainee, credentials)
	gym.DELETE("/trainees/me", h.DeleteTrainee, credentials)
	gym.PATCH("/trainees/me/active", h.SetTraineeActive, credentials)
	gym.PUT("/trainees/me/password", h.ChangeTraineePassword, credentials)
	gym.GET("/trainees/me/trainings", h.TraineeTrainings, credentials)
	gym.GET("/trainees/me/unassigned-trainers", h.UnassignedTrainers, credentials)
	gym.PUT("/trainees/me/trainers", h.UpdateTraineeTrainers, credentials)
	gym.GET("/trainers/me", h.GetTrainer, credentials)
	gym.PUT("/trainers/me", h.UpdateTrainer, credentials)
	gym.DELETE("/trainers/me", h.DeleteTrainer, credentials)
	gym.PATCH("/trainers/me/active", h.SetTrainerActive, credentials)
	gym.PUT("/trainers/me/password", h.ChangeTrainerPassword, credentials)
	gym.GET("/trainers/me/trainings", h.TrainerTrainings, credentials)
	gym.POST("/trainings", h.AddTraining, credentials)

	// Protected – require valid JWT in Authorization header
	gym.GET("/training-types", h.TrainingTypes, jwt)
	gym.POST("/training-types", h.CreateTrainingType, jwt)
}

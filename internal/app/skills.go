package app

import (
	habitsvc "github.com/gmsas95/habitlens/internal/habits"
	"github.com/gmsas95/habitlens/internal/skills"
	"github.com/gmsas95/habitlens/internal/skills/habits"
	"go.uber.org/zap"
)

// RegisterSkills registers the tool skills backed by the habit service
func RegisterSkills(registry *skills.Registry, service *habitsvc.Service, logger *zap.Logger) {
	if err := registry.Register(habits.NewHabitsSkill(service, logger)); err != nil {
		logger.Error("Failed to register habits skill", zap.Error(err))
	}
}

package memory

import (
	"time"

	"github.com/ecoreciclaje/collection-core/internal/domain/points"
	"github.com/ecoreciclaje/collection-core/internal/domain/schedule"
	"github.com/ecoreciclaje/collection-core/internal/domain/user"
)

const (
	UserIDResident = "usr-resident-001"
	UserIDCompany  = "usr-company-001"
	UserIDAdmin    = "usr-admin-001"

	PointsConfigIDDefault = "pcfg-default"
)

func SeedUsers() []user.User {
	createdAt := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	return []user.User{
		{
			ID:        UserIDResident,
			Name:      "Laura Gomez",
			Email:     "laura.gomez@example.com",
			Role:      user.RoleResident,
			Locality:  "Centro",
			Address:   "Calle 45 #12-34, Bogota",
			CreatedAt: createdAt,
		},
		{
			ID:        UserIDCompany,
			Name:      "EcoCollect SAS",
			Email:     "ops@ecocollect.example.com",
			Role:      user.RoleCompany,
			Locality:  "Norte",
			Address:   "Carrera 7 #100-20, Bogota",
			CreatedAt: createdAt,
		},
		{
			ID:        UserIDAdmin,
			Name:      "Plataforma Admin",
			Email:     "admin@ecoreciclaje.example.com",
			Role:      user.RoleAdmin,
			Locality:  "Centro",
			Address:   "Avenida 26 #50-10, Bogota",
			CreatedAt: createdAt,
		},
	}
}

func SeedSchedules() []schedule.LocalitySchedule {
	createdAt := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	localities := map[string]time.Weekday{
		"Centro":    time.Monday,
		"Norte":     time.Tuesday,
		"Sur":       time.Wednesday,
		"Oriente":   time.Thursday,
		"Occidente": time.Friday,
	}

	out := make([]schedule.LocalitySchedule, 0, len(localities))
	for locality, weekday := range localities {
		out = append(out, schedule.LocalitySchedule{
			ID:        "sch-" + locality,
			Locality:  locality,
			Weekday:   weekday,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
	}
	return out
}

func SeedPointsConfigs() []points.Config {
	createdAt := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	return []points.Config{
		{
			ID:               PointsConfigIDDefault,
			Description:      "Default award parameters",
			BasePoints:       10,
			WeightFactor:     2,
			SeparationFactor: 5,
			Active:           true,
			CreatedAt:        createdAt,
			UpdatedAt:        createdAt,
		},
	}
}

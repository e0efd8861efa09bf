package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"peakgear/models"
)

// SeedProducts inserts the sample catalog when the products collection is
// empty, so a fresh deployment has something to rent
func (s *MongoStorage) SeedProducts(ctx context.Context) error {
	count, err := s.products.CountDocuments(ctx, map[string]interface{}{})
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("products collection already populated", "count", count)
		return nil
	}

	now := time.Now().UTC()
	samples := []models.Product{
		{
			ID:              uuid.NewString(),
			Name:            "Thule Motion XT XXL",
			Description:     "Extra-large cargo box perfect for long adventures. Aerodynamic design reduces wind noise and fuel consumption.",
			Category:        models.CategoryCargoBox,
			DailyRate:       "45.00",
			SecurityDeposit: "300.00",
			Specifications: map[string]string{
				"dimensions":      "175 x 82 x 46 cm",
				"weight_capacity": "75 kg",
				"capacity":        "610 liters",
			},
			CompatibleCars: []string{"SUV", "Large Sedan", "Wagon", "Crossover"},
			Images:         []string{"https://images.unsplash.com/photo-1449824913935-59a10b8d2000?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600"},
			Available:      true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:              uuid.NewString(),
			Name:            "Yakima SkyBox 18",
			Description:     "Premium rooftop cargo box with dual-side opening for easy access. Weather-resistant construction.",
			Category:        models.CategoryCargoBox,
			DailyRate:       "40.00",
			SecurityDeposit: "250.00",
			Specifications: map[string]string{
				"dimensions":      "158 x 84 x 46 cm",
				"weight_capacity": "70 kg",
				"capacity":        "540 liters",
			},
			CompatibleCars: []string{"Sedan", "SUV", "Hatchback", "Wagon"},
			Images:         []string{"https://images.unsplash.com/photo-1449824913935-59a10b8d2000?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600"},
			Available:      true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:              uuid.NewString(),
			Name:            "Thule T2 Pro XT 2-Bike",
			Description:     "Platform-style hitch bike rack for 2 bikes. Tool-free installation with integrated cable lock.",
			Category:        models.CategoryBikeCarrier,
			DailyRate:       "35.00",
			SecurityDeposit: "200.00",
			Specifications: map[string]string{
				"dimensions":      "132 x 33 x 61 cm",
				"weight_capacity": "27 kg per bike",
				"capacity":        "2 bikes",
			},
			CompatibleCars: []string{"Any vehicle with hitch receiver"},
			Images:         []string{"https://images.unsplash.com/photo-1558618666-fcd25c85cd64?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600"},
			Available:      true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:              uuid.NewString(),
			Name:            "Kuat NV 2.0 Base",
			Description:     "Heavy-duty 2-bike hitch rack with adjustable wheel holders. Premium build quality with lifetime warranty.",
			Category:        models.CategoryBikeCarrier,
			DailyRate:       "42.00",
			SecurityDeposit: "275.00",
			Specifications: map[string]string{
				"dimensions":      "130 x 30 x 65 cm",
				"weight_capacity": "27 kg per bike",
				"capacity":        "2 bikes",
			},
			CompatibleCars: []string{"Vehicles with 1.25 or 2 inch hitch"},
			Images:         []string{"https://images.unsplash.com/photo-1558618666-fcd25c85cd64?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=600"},
			Available:      true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}

	docs := make([]interface{}, len(samples))
	for i := range samples {
		docs[i] = samples[i]
	}
	if _, err := s.products.InsertMany(ctx, docs); err != nil {
		return err
	}
	slog.Info("seeded sample products", "count", len(samples))
	return nil
}

package mockapi

import (
	"github.com/piwi3910/lumispec/internal/model"
)

// Seed loads a small demo data set: two products, one of them with a project,
// a sample and a partially filled measurement.
func (s *Server) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	withIDs := func(params []model.Parameter) []model.Parameter {
		for i := range params {
			params[i].ID = newID()
		}
		return params
	}

	measParams := withIDs(model.NewCatalogParameters())
	measParams[0].Value = 9.8
	measParams[1].Value = 220
	measParams[4].Value = 810

	productParams := withIDs(model.NewCatalogParameters())
	productParams[0].Value = 10
	productParams[4].Value = 800

	sampleID := newID()
	projectID := newID()
	lamp := &model.Product{
		ID:         newID(),
		Name:       "Luminária X",
		Type:       model.ProductLamp,
		Reference:  "LX-001",
		CreatedAt:  now,
		Parameters: productParams,
		Projects: []model.Project{{
			ID:        projectID,
			Number:    "P-2024-01",
			CreatedAt: now,
			Samples: []model.Sample{{
				ID:        sampleID,
				Code:      "A1",
				ProjectID: projectID,
				CreatedAt: now,
				Measurements: []model.Measurement{{
					ID:         newID(),
					Type:       model.IntegratingSphere,
					SampleID:   sampleID,
					CreatedAt:  now,
					Parameters: measParams,
				}},
			}},
		}},
	}
	strip := &model.Product{
		ID:         newID(),
		Name:       "Fita LED 5m",
		Type:       model.ProductStrip,
		Reference:  "FT-500",
		CreatedAt:  now,
		Parameters: withIDs(model.NewCatalogParameters()),
		Projects:   []model.Project{},
	}
	s.products = append(s.products, lamp, strip)
}

// Products returns a copy of the stored products.
func (s *Server) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, len(s.products))
	for i, p := range s.products {
		out[i] = *p
	}
	return out
}

// Package mockapi is an in-memory implementation of the LumiSpec REST API.
// It backs the integration tests and the mock-api command.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piwi3910/lumispec/internal/model"
)

// Server holds the data set and serves it over HTTP.
type Server struct {
	mu       sync.Mutex
	products []*model.Product
	logger   *zap.Logger
	now      func() time.Time
}

// New returns an empty server.
func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{logger: logger, now: time.Now}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/produtos", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Post("/", s.createProduct)
		r.Get("/{productID}", s.getProduct)
		r.Put("/{productID}", s.updateProduct)
		r.Delete("/{productID}", s.deleteProduct)
	})
	r.Post("/parametroProduto/{productID}", s.createProductParameter)
	r.Put("/parametroProduto/{productID}/{paramID}", s.updateProductParameter)

	r.Route("/projeto/{productID}", func(r chi.Router) {
		r.Get("/", s.listProjects)
		r.Post("/", s.createProject)
		r.Get("/{projectID}", s.getProject)
		r.Put("/{projectID}", s.updateProject)
		r.Delete("/{projectID}", s.deleteProject)
	})
	r.Route("/amostra/{productID}/{projectID}", func(r chi.Router) {
		r.Get("/", s.listSamples)
		r.Post("/", s.createSample)
		r.Put("/{sampleID}", s.updateSample)
		r.Delete("/{sampleID}", s.deleteSample)
	})
	r.Route("/medicao/{productID}/{projectID}/{sampleID}", func(r chi.Router) {
		r.Get("/", s.listMeasurements)
		r.Post("/", s.createMeasurement)
		r.Post("/{measurementID}", s.updateMeasurement)
		r.Delete("/{measurementID}", s.deleteMeasurement)
	})
	r.Route("/parametro-medicao/{productID}/{projectID}/{sampleID}/{measurementID}", func(r chi.Router) {
		r.Get("/", s.listMeasurementParameters)
		r.Post("/", s.createMeasurementParameter)
		r.Put("/{paramID}", s.updateMeasurementParameter)
		r.Delete("/{paramID}", s.deleteMeasurementParameter)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("mock api",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", r.Header.Get("X-Request-ID")))
	})
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

// writeNestedData mimics the update endpoints that wrap their payload twice.
func writeNestedData(w http.ResponseWriter, data any) {
	writeData(w, http.StatusOK, map[string]any{"data": data})
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func newID() string { return uuid.NewString() }

// Lookups. Callers hold s.mu.

func (s *Server) product(id string) *model.Product {
	for _, p := range s.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Server) project(r *http.Request) (*model.Product, *model.Project) {
	p := s.product(chi.URLParam(r, "productID"))
	if p == nil {
		return nil, nil
	}
	id := chi.URLParam(r, "projectID")
	for i := range p.Projects {
		if p.Projects[i].ID == id {
			return p, &p.Projects[i]
		}
	}
	return p, nil
}

func (s *Server) sample(r *http.Request) *model.Sample {
	_, pj := s.project(r)
	if pj == nil {
		return nil
	}
	id := chi.URLParam(r, "sampleID")
	for i := range pj.Samples {
		if pj.Samples[i].ID == id {
			return &pj.Samples[i]
		}
	}
	return nil
}

func (s *Server) measurement(r *http.Request) (*model.Sample, *model.Measurement) {
	smp := s.sample(r)
	if smp == nil {
		return nil, nil
	}
	id := chi.URLParam(r, "measurementID")
	for i := range smp.Measurements {
		if smp.Measurements[i].ID == id {
			return smp, &smp.Measurements[i]
		}
	}
	return smp, nil
}

func findParam(params []model.Parameter, id string) int {
	for i := range params {
		if params[i].ID == id {
			return i
		}
	}
	return -1
}

// Products

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Product, len(s.products))
	for i, p := range s.products {
		out[i] = *p
	}
	writeData(w, http.StatusOK, out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.product(chi.URLParam(r, "productID"))
	if p == nil {
		writeMsg(w, http.StatusNotFound, "Produto não encontrado")
		return
	}
	writeData(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if !decode(r, &in) || strings.TrimSpace(in.Name) == "" {
		writeMsg(w, http.StatusBadRequest, "Nome do produto é obrigatório")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.Reference != "" {
		for _, p := range s.products {
			if p.Reference == in.Reference {
				writeMsg(w, http.StatusConflict, "Já existe um produto com esta referência")
				return
			}
		}
	}
	p := &model.Product{
		ID:         newID(),
		Name:       in.Name,
		Type:       in.Type,
		Reference:  in.Reference,
		CreatedAt:  s.now(),
		Projects:   []model.Project{},
		Parameters: []model.Parameter{},
	}
	s.products = append(s.products, p)
	writeData(w, http.StatusCreated, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if !decode(r, &in) {
		writeMsg(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.product(chi.URLParam(r, "productID"))
	if p == nil {
		writeMsg(w, http.StatusNotFound, "Produto não encontrado")
		return
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Type != "" {
		p.Type = in.Type
	}
	if in.Reference != "" {
		p.Reference = in.Reference
	}
	writeData(w, http.StatusOK, p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "productID")
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			writeData(w, http.StatusOK, map[string]string{"id": id})
			return
		}
	}
	writeMsg(w, http.StatusNotFound, "Produto não encontrado")
}

type paramBody struct {
	Name  *string  `json:"nome"`
	Value *float64 `json:"valor"`
	Unit  *string  `json:"unidade"`
}

func (b paramBody) apply(p *model.Parameter) {
	if b.Name != nil {
		p.Name = *b.Name
	}
	if b.Value != nil {
		p.Value = *b.Value
	}
	if b.Unit != nil {
		p.Unit = *b.Unit
	}
}

func (s *Server) createProductParameter(w http.ResponseWriter, r *http.Request) {
	var in paramBody
	if !decode(r, &in) || in.Name == nil {
		writeMsg(w, http.StatusBadRequest, "Nome do parâmetro é obrigatório")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.product(chi.URLParam(r, "productID"))
	if p == nil {
		writeMsg(w, http.StatusNotFound, "Produto não encontrado")
		return
	}
	param := model.Parameter{ID: newID(), Value: model.Unmeasured}
	in.apply(&param)
	p.Parameters = append(p.Parameters, param)
	writeData(w, http.StatusCreated, param)
}

func (s *Server) updateProductParameter(w http.ResponseWriter, r *http.Request) {
	var in paramBody
	if !decode(r, &in) {
		writeMsg(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.product(chi.URLParam(r, "productID"))
	if p == nil {
		writeMsg(w, http.StatusNotFound, "Produto não encontrado")
		return
	}
	i := findParam(p.Parameters, chi.URLParam(r, "paramID"))
	if i < 0 {
		writeMsg(w, http.StatusNotFound, "Parâmetro não encontrado")
		return
	}
	in.apply(&p.Parameters[i])
	writeData(w, http.StatusOK, p.Parameters[i])
}

// Projects

type numberBody struct {
	Number string `json:"numero"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.product(chi.URLParam(r, "productID"))
	if p == nil {
		writeMsg(w, http.StatusNotFound, "Produto não encontrado")
		return
	}
	writeData(w, http.StatusOK, p.Projects)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, pj := s.project(r)
	if pj == nil {
		writeMsg(w, http.StatusNotFound, "Projeto não encontrado")
		return
	}
	writeData(w, http.StatusOK, pj)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var in numberBody
	if !decode(r, &in) || strings.TrimSpace(in.Number) == "" {
		writeMsg(w, http.StatusBadRequest, "Número do projeto é obrigatório")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.product(chi.URLParam(r, "productID"))
	if p == nil {
		writeMsg(w, http.StatusNotFound, "Produto não encontrado")
		return
	}
	pj := model.Project{ID: newID(), Number: in.Number, CreatedAt: s.now(), Samples: []model.Sample{}}
	p.Projects = append(p.Projects, pj)
	writeData(w, http.StatusCreated, pj)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var in numberBody
	if !decode(r, &in) || strings.TrimSpace(in.Number) == "" {
		writeMsg(w, http.StatusBadRequest, "Número do projeto é obrigatório")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, pj := s.project(r)
	if pj == nil {
		writeMsg(w, http.StatusNotFound, "Projeto não encontrado")
		return
	}
	pj.Number = in.Number
	writeData(w, http.StatusOK, pj)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, pj := s.project(r)
	if pj == nil {
		writeMsg(w, http.StatusNotFound, "Projeto não encontrado")
		return
	}
	id := pj.ID
	for i := range p.Projects {
		if p.Projects[i].ID == id {
			p.Projects = append(p.Projects[:i], p.Projects[i+1:]...)
			break
		}
	}
	writeData(w, http.StatusOK, map[string]string{"id": id})
}

// Samples

type codeBody struct {
	Code string `json:"codigo"`
}

func (s *Server) listSamples(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, pj := s.project(r)
	if pj == nil {
		writeMsg(w, http.StatusNotFound, "Projeto não encontrado")
		return
	}
	writeData(w, http.StatusOK, pj.Samples)
}

func (s *Server) createSample(w http.ResponseWriter, r *http.Request) {
	var in codeBody
	if !decode(r, &in) || strings.TrimSpace(in.Code) == "" {
		writeMsg(w, http.StatusBadRequest, "Código da amostra é obrigatório")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, pj := s.project(r)
	if pj == nil {
		writeMsg(w, http.StatusNotFound, "Projeto não encontrado")
		return
	}
	smp := model.Sample{ID: newID(), Code: in.Code, ProjectID: pj.ID, CreatedAt: s.now(), Measurements: []model.Measurement{}}
	pj.Samples = append(pj.Samples, smp)
	writeData(w, http.StatusCreated, smp)
}

func (s *Server) updateSample(w http.ResponseWriter, r *http.Request) {
	var in codeBody
	if !decode(r, &in) || strings.TrimSpace(in.Code) == "" {
		writeMsg(w, http.StatusBadRequest, "Código da amostra é obrigatório")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	smp := s.sample(r)
	if smp == nil {
		writeMsg(w, http.StatusNotFound, "Amostra não encontrada")
		return
	}
	smp.Code = in.Code
	writeNestedData(w, smp)
}

func (s *Server) deleteSample(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, pj := s.project(r)
	if pj == nil {
		writeMsg(w, http.StatusNotFound, "Projeto não encontrado")
		return
	}
	id := chi.URLParam(r, "sampleID")
	for i := range pj.Samples {
		if pj.Samples[i].ID != id {
			continue
		}
		if len(pj.Samples[i].Measurements) > 0 {
			writeMsg(w, http.StatusConflict, "Amostra possui medições")
			return
		}
		pj.Samples = append(pj.Samples[:i], pj.Samples[i+1:]...)
		writeData(w, http.StatusOK, map[string]string{"id": id})
		return
	}
	writeMsg(w, http.StatusNotFound, "Amostra não encontrada")
}

// Measurements

type measurementBody struct {
	Type model.MeasurementType `json:"tipoMedicao"`
}

func (s *Server) listMeasurements(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	smp := s.sample(r)
	if smp == nil {
		writeMsg(w, http.StatusNotFound, "Amostra não encontrada")
		return
	}
	writeData(w, http.StatusOK, smp.Measurements)
}

func (s *Server) createMeasurement(w http.ResponseWriter, r *http.Request) {
	var in measurementBody
	if !decode(r, &in) || in.Type == "" {
		writeMsg(w, http.StatusBadRequest, "Tipo de medição é obrigatório")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	smp := s.sample(r)
	if smp == nil {
		writeMsg(w, http.StatusNotFound, "Amostra não encontrada")
		return
	}
	m := model.Measurement{ID: newID(), Type: in.Type, SampleID: smp.ID, CreatedAt: s.now(), Parameters: []model.Parameter{}}
	smp.Measurements = append(smp.Measurements, m)
	writeData(w, http.StatusCreated, m)
}

func (s *Server) updateMeasurement(w http.ResponseWriter, r *http.Request) {
	var in measurementBody
	if !decode(r, &in) || in.Type == "" {
		writeMsg(w, http.StatusBadRequest, "Tipo de medição é obrigatório")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, m := s.measurement(r)
	if m == nil {
		writeMsg(w, http.StatusNotFound, "Medição não encontrada")
		return
	}
	m.Type = in.Type
	writeNestedData(w, m)
}

func (s *Server) deleteMeasurement(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	smp, m := s.measurement(r)
	if m == nil {
		writeMsg(w, http.StatusNotFound, "Medição não encontrada")
		return
	}
	if len(m.Parameters) > 0 {
		writeMsg(w, http.StatusConflict, "Medição possui parâmetros")
		return
	}
	id := m.ID
	for i := range smp.Measurements {
		if smp.Measurements[i].ID == id {
			smp.Measurements = append(smp.Measurements[:i], smp.Measurements[i+1:]...)
			break
		}
	}
	writeData(w, http.StatusOK, map[string]string{"id": id})
}

// Measurement parameters

func (s *Server) listMeasurementParameters(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, m := s.measurement(r)
	if m == nil {
		writeMsg(w, http.StatusNotFound, "Medição não encontrada")
		return
	}
	writeData(w, http.StatusOK, m.Parameters)
}

func (s *Server) createMeasurementParameter(w http.ResponseWriter, r *http.Request) {
	var in paramBody
	if !decode(r, &in) || in.Name == nil {
		writeMsg(w, http.StatusBadRequest, "Nome do parâmetro é obrigatório")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, m := s.measurement(r)
	if m == nil {
		writeMsg(w, http.StatusNotFound, "Medição não encontrada")
		return
	}
	param := model.Parameter{ID: newID(), Value: model.Unmeasured}
	in.apply(&param)
	m.Parameters = append(m.Parameters, param)
	writeData(w, http.StatusCreated, param)
}

func (s *Server) updateMeasurementParameter(w http.ResponseWriter, r *http.Request) {
	var in paramBody
	if !decode(r, &in) {
		writeMsg(w, http.StatusBadRequest, "Dados inválidos")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, m := s.measurement(r)
	if m == nil {
		writeMsg(w, http.StatusNotFound, "Medição não encontrada")
		return
	}
	i := findParam(m.Parameters, chi.URLParam(r, "paramID"))
	if i < 0 {
		writeMsg(w, http.StatusNotFound, "Parâmetro não encontrado")
		return
	}
	in.apply(&m.Parameters[i])
	writeData(w, http.StatusOK, m.Parameters[i])
}

func (s *Server) deleteMeasurementParameter(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, m := s.measurement(r)
	if m == nil {
		writeMsg(w, http.StatusNotFound, "Medição não encontrada")
		return
	}
	i := findParam(m.Parameters, chi.URLParam(r, "paramID"))
	if i < 0 {
		writeMsg(w, http.StatusNotFound, "Parâmetro não encontrado")
		return
	}
	m.Parameters = append(m.Parameters[:i], m.Parameters[i+1:]...)
	writeData(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "paramID")})
}

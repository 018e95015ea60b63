package store

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/lumispec/internal/api"
	"github.com/piwi3910/lumispec/internal/model"
)

// Backend is the set of REST calls the stores issue. *api.Client implements
// it.
type Backend interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	CreateProduct(ctx context.Context, in model.ProductInput) (model.Product, error)
	UpdateProduct(ctx context.Context, id string, in model.ProductInput) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateProductParameter(ctx context.Context, productID string, p model.Parameter) (model.Parameter, error)
	UpdateProductParameter(ctx context.Context, productID, paramID string, value float64) (model.Parameter, error)

	ListProjects(ctx context.Context, productID string) ([]model.Project, error)
	GetProject(ctx context.Context, productID, projectID string) (model.Project, error)
	CreateProject(ctx context.Context, productID, number string) (model.Project, error)
	UpdateProject(ctx context.Context, productID, projectID, number string) (model.Project, error)
	DeleteProject(ctx context.Context, productID, projectID string) error

	ListSamples(ctx context.Context, productID, projectID string) ([]model.Sample, error)
	CreateSample(ctx context.Context, productID, projectID, code string) (model.Sample, error)
	UpdateSample(ctx context.Context, productID, projectID, sampleID, code string) (model.Sample, error)
	DeleteSample(ctx context.Context, productID, projectID, sampleID string) error

	ListMeasurements(ctx context.Context, productID, projectID, sampleID string) ([]model.Measurement, error)
	CreateMeasurement(ctx context.Context, productID, projectID, sampleID string, t model.MeasurementType) (model.Measurement, error)
	UpdateMeasurement(ctx context.Context, ref model.MeasurementRef, t model.MeasurementType) (model.Measurement, error)
	DeleteMeasurement(ctx context.Context, ref model.MeasurementRef) error

	ListMeasurementParameters(ctx context.Context, ref model.MeasurementRef) ([]model.Parameter, error)
	CreateMeasurementParameter(ctx context.Context, ref model.MeasurementRef, p model.Parameter) (model.Parameter, error)
	UpdateMeasurementParameter(ctx context.Context, ref model.MeasurementRef, paramID string, value float64) (model.Parameter, error)
	DeleteMeasurementParameter(ctx context.Context, ref model.MeasurementRef, paramID string) error
}

var _ Backend = (*api.Client)(nil)

// BatchResult reports a fan-out of single calls. Err is the first failure;
// which of the other calls succeeded is not recorded.
type BatchResult struct {
	Attempted int
	Err       error
}

// OK reports whether every call succeeded.
func (r BatchResult) OK() bool { return r.Err == nil }

// Hub is the root store: one Slice per entity plus the backend they load
// from.
type Hub struct {
	backend Backend
	logger  *zap.Logger

	Products          *Slice[model.Product]
	Projects          *Slice[model.Project]
	Samples           *Slice[model.Sample]
	Measurements      *Slice[model.Measurement]
	ProductParams     *Slice[model.Parameter]
	MeasurementParams *Slice[model.Parameter]
}

// NewHub creates empty stores backed by b.
func NewHub(b Backend, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		backend:           b,
		logger:            logger,
		Products:          NewSlice(func(p model.Product) string { return p.ID }),
		Projects:          NewSlice(func(p model.Project) string { return p.ID }),
		Samples:           NewSlice(func(s model.Sample) string { return s.ID }),
		Measurements:      NewSlice(func(m model.Measurement) string { return m.ID }),
		ProductParams:     NewSlice(func(p model.Parameter) string { return p.ID }),
		MeasurementParams: NewSlice(func(p model.Parameter) string { return p.ID }),
	}
}

// run wraps a single call with the begin/fail bookkeeping of s.
func run[T, R any](s *Slice[T], call func() (R, error), ok func(R)) (R, error) {
	s.begin()
	out, err := call()
	if err != nil {
		s.fail(api.Message(err))
		return out, err
	}
	ok(out)
	return out, nil
}

// fanOut runs fn for each of n items concurrently with no cap. A failure does
// not cancel the others.
func fanOut(n int, fn func(i int) error) BatchResult {
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error { return fn(i) })
	}
	return BatchResult{Attempted: n, Err: g.Wait()}
}

// Products

func (h *Hub) ListProducts(ctx context.Context) ([]model.Product, error) {
	return run(h.Products, func() ([]model.Product, error) {
		return h.backend.ListProducts(ctx)
	}, h.Products.loaded)
}

func (h *Hub) ShowProduct(ctx context.Context, id string) (model.Product, error) {
	return run(h.Products, func() (model.Product, error) {
		return h.backend.GetProduct(ctx, id)
	}, h.Products.selected)
}

func (h *Hub) CreateProduct(ctx context.Context, in model.ProductInput) (model.Product, error) {
	return run(h.Products, func() (model.Product, error) {
		return h.backend.CreateProduct(ctx, in)
	}, h.Products.appended)
}

func (h *Hub) UpdateProduct(ctx context.Context, id string, in model.ProductInput) (model.Product, error) {
	return run(h.Products, func() (model.Product, error) {
		p, err := h.backend.UpdateProduct(ctx, id, in)
		if err == nil && p.ID == "" {
			p.ID = id
		}
		return p, err
	}, h.Products.replaced)
}

func (h *Hub) DeleteProduct(ctx context.Context, id string) error {
	_, err := run(h.Products, func() (struct{}, error) {
		return struct{}{}, h.backend.DeleteProduct(ctx, id)
	}, func(struct{}) { h.Products.removed(id) })
	return err
}

// CreateProductParameters creates the full catalog for a product, every
// value unmeasured.
func (h *Hub) CreateProductParameters(ctx context.Context, productID string) BatchResult {
	params := model.NewCatalogParameters()
	h.ProductParams.begin()
	res := fanOut(len(params), func(i int) error {
		p, err := h.backend.CreateProductParameter(ctx, productID, params[i])
		if err == nil {
			h.ProductParams.appended(p)
		}
		return err
	})
	h.ProductParams.settled(res.Err, api.Message(res.Err))
	return res
}

func (h *Hub) UpdateProductParameters(ctx context.Context, productID string, updates []model.ParamUpdate) BatchResult {
	h.ProductParams.begin()
	res := fanOut(len(updates), func(i int) error {
		p, err := h.backend.UpdateProductParameter(ctx, productID, updates[i].ID, updates[i].Value)
		if err == nil {
			h.ProductParams.replaced(p)
		}
		return err
	})
	h.ProductParams.settled(res.Err, api.Message(res.Err))
	h.logger.Debug("product parameters updated",
		zap.String("product", productID),
		zap.Int("attempted", res.Attempted),
		zap.Bool("ok", res.OK()))
	return res
}

// Projects

func (h *Hub) ListProjects(ctx context.Context, productID string) ([]model.Project, error) {
	return run(h.Projects, func() ([]model.Project, error) {
		return h.backend.ListProjects(ctx, productID)
	}, h.Projects.loaded)
}

func (h *Hub) ShowProject(ctx context.Context, productID, projectID string) (model.Project, error) {
	return run(h.Projects, func() (model.Project, error) {
		return h.backend.GetProject(ctx, productID, projectID)
	}, h.Projects.selected)
}

func (h *Hub) CreateProject(ctx context.Context, productID, number string) (model.Project, error) {
	return run(h.Projects, func() (model.Project, error) {
		return h.backend.CreateProject(ctx, productID, number)
	}, h.Projects.appended)
}

func (h *Hub) UpdateProject(ctx context.Context, productID, projectID, number string) (model.Project, error) {
	return run(h.Projects, func() (model.Project, error) {
		p, err := h.backend.UpdateProject(ctx, productID, projectID, number)
		if err == nil && p.ID == "" {
			p.ID = projectID
		}
		return p, err
	}, h.Projects.replaced)
}

func (h *Hub) DeleteProject(ctx context.Context, productID, projectID string) error {
	_, err := run(h.Projects, func() (struct{}, error) {
		return struct{}{}, h.backend.DeleteProject(ctx, productID, projectID)
	}, func(struct{}) { h.Projects.removed(projectID) })
	return err
}

// Samples

func (h *Hub) ListSamples(ctx context.Context, productID, projectID string) ([]model.Sample, error) {
	return run(h.Samples, func() ([]model.Sample, error) {
		return h.backend.ListSamples(ctx, productID, projectID)
	}, h.Samples.loaded)
}

func (h *Hub) CreateSample(ctx context.Context, productID, projectID, code string) (model.Sample, error) {
	return run(h.Samples, func() (model.Sample, error) {
		return h.backend.CreateSample(ctx, productID, projectID, code)
	}, h.Samples.appended)
}

func (h *Hub) UpdateSample(ctx context.Context, productID, projectID, sampleID, code string) (model.Sample, error) {
	return run(h.Samples, func() (model.Sample, error) {
		s, err := h.backend.UpdateSample(ctx, productID, projectID, sampleID, code)
		if err == nil && s.ID == "" {
			s.ID = sampleID
		}
		return s, err
	}, h.Samples.replaced)
}

func (h *Hub) DeleteSample(ctx context.Context, productID, projectID, sampleID string) error {
	_, err := run(h.Samples, func() (struct{}, error) {
		return struct{}{}, h.backend.DeleteSample(ctx, productID, projectID, sampleID)
	}, func(struct{}) { h.Samples.removed(sampleID) })
	return err
}

// Measurements

func (h *Hub) ListMeasurements(ctx context.Context, productID, projectID, sampleID string) ([]model.Measurement, error) {
	return run(h.Measurements, func() ([]model.Measurement, error) {
		return h.backend.ListMeasurements(ctx, productID, projectID, sampleID)
	}, h.Measurements.loaded)
}

func (h *Hub) CreateMeasurement(ctx context.Context, productID, projectID, sampleID string, t model.MeasurementType) (model.Measurement, error) {
	return run(h.Measurements, func() (model.Measurement, error) {
		return h.backend.CreateMeasurement(ctx, productID, projectID, sampleID, t)
	}, h.Measurements.appended)
}

func (h *Hub) UpdateMeasurement(ctx context.Context, ref model.MeasurementRef, t model.MeasurementType) (model.Measurement, error) {
	return run(h.Measurements, func() (model.Measurement, error) {
		m, err := h.backend.UpdateMeasurement(ctx, ref, t)
		if err == nil && m.ID == "" {
			m.ID = ref.MeasurementID
		}
		return m, err
	}, h.Measurements.replaced)
}

func (h *Hub) DeleteMeasurement(ctx context.Context, ref model.MeasurementRef) error {
	_, err := run(h.Measurements, func() (struct{}, error) {
		return struct{}{}, h.backend.DeleteMeasurement(ctx, ref)
	}, func(struct{}) { h.Measurements.removed(ref.MeasurementID) })
	return err
}

// Measurement parameters

func (h *Hub) ListMeasurementParameters(ctx context.Context, ref model.MeasurementRef) ([]model.Parameter, error) {
	return run(h.MeasurementParams, func() ([]model.Parameter, error) {
		return h.backend.ListMeasurementParameters(ctx, ref)
	}, h.MeasurementParams.loaded)
}

// CreateMeasurementParameters creates the full catalog under a measurement,
// every value unmeasured.
func (h *Hub) CreateMeasurementParameters(ctx context.Context, ref model.MeasurementRef) BatchResult {
	params := model.NewCatalogParameters()
	h.MeasurementParams.begin()
	res := fanOut(len(params), func(i int) error {
		p, err := h.backend.CreateMeasurementParameter(ctx, ref, params[i])
		if err == nil {
			h.MeasurementParams.appended(p)
		}
		return err
	})
	h.MeasurementParams.settled(res.Err, api.Message(res.Err))
	return res
}

func (h *Hub) UpdateMeasurementParameters(ctx context.Context, ref model.MeasurementRef, updates []model.ParamUpdate) BatchResult {
	h.MeasurementParams.begin()
	res := fanOut(len(updates), func(i int) error {
		p, err := h.backend.UpdateMeasurementParameter(ctx, ref, updates[i].ID, updates[i].Value)
		if err == nil {
			h.MeasurementParams.replaced(p)
		}
		return err
	})
	h.MeasurementParams.settled(res.Err, api.Message(res.Err))
	h.logger.Debug("measurement parameters updated",
		zap.String("measurement", ref.MeasurementID),
		zap.Int("attempted", res.Attempted),
		zap.Bool("ok", res.OK()))
	return res
}

func (h *Hub) DeleteMeasurementParameters(ctx context.Context, ref model.MeasurementRef, ids []string) BatchResult {
	h.MeasurementParams.begin()
	res := fanOut(len(ids), func(i int) error {
		err := h.backend.DeleteMeasurementParameter(ctx, ref, ids[i])
		if err == nil {
			h.MeasurementParams.removed(ids[i])
		}
		return err
	})
	h.MeasurementParams.settled(res.Err, api.Message(res.Err))
	return res
}

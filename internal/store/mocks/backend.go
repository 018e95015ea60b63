package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/piwi3910/lumispec/internal/model"
)

// Backend is a mock for store.Backend.
type Backend struct {
	mock.Mock
}

func (m *Backend) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]model.Product); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) GetProduct(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *Backend) CreateProduct(ctx context.Context, in model.ProductInput) (model.Product, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *Backend) UpdateProduct(ctx context.Context, id string, in model.ProductInput) (model.Product, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(model.Product), args.Error(1)
}

func (m *Backend) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Backend) CreateProductParameter(ctx context.Context, productID string, p model.Parameter) (model.Parameter, error) {
	args := m.Called(ctx, productID, p)
	return args.Get(0).(model.Parameter), args.Error(1)
}

func (m *Backend) UpdateProductParameter(ctx context.Context, productID, paramID string, value float64) (model.Parameter, error) {
	args := m.Called(ctx, productID, paramID, value)
	return args.Get(0).(model.Parameter), args.Error(1)
}

func (m *Backend) ListProjects(ctx context.Context, productID string) ([]model.Project, error) {
	args := m.Called(ctx, productID)
	if list, ok := args.Get(0).([]model.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) GetProject(ctx context.Context, productID, projectID string) (model.Project, error) {
	args := m.Called(ctx, productID, projectID)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *Backend) CreateProject(ctx context.Context, productID, number string) (model.Project, error) {
	args := m.Called(ctx, productID, number)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *Backend) UpdateProject(ctx context.Context, productID, projectID, number string) (model.Project, error) {
	args := m.Called(ctx, productID, projectID, number)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *Backend) DeleteProject(ctx context.Context, productID, projectID string) error {
	args := m.Called(ctx, productID, projectID)
	return args.Error(0)
}

func (m *Backend) ListSamples(ctx context.Context, productID, projectID string) ([]model.Sample, error) {
	args := m.Called(ctx, productID, projectID)
	if list, ok := args.Get(0).([]model.Sample); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) CreateSample(ctx context.Context, productID, projectID, code string) (model.Sample, error) {
	args := m.Called(ctx, productID, projectID, code)
	return args.Get(0).(model.Sample), args.Error(1)
}

func (m *Backend) UpdateSample(ctx context.Context, productID, projectID, sampleID, code string) (model.Sample, error) {
	args := m.Called(ctx, productID, projectID, sampleID, code)
	return args.Get(0).(model.Sample), args.Error(1)
}

func (m *Backend) DeleteSample(ctx context.Context, productID, projectID, sampleID string) error {
	args := m.Called(ctx, productID, projectID, sampleID)
	return args.Error(0)
}

func (m *Backend) ListMeasurements(ctx context.Context, productID, projectID, sampleID string) ([]model.Measurement, error) {
	args := m.Called(ctx, productID, projectID, sampleID)
	if list, ok := args.Get(0).([]model.Measurement); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) CreateMeasurement(ctx context.Context, productID, projectID, sampleID string, t model.MeasurementType) (model.Measurement, error) {
	args := m.Called(ctx, productID, projectID, sampleID, t)
	return args.Get(0).(model.Measurement), args.Error(1)
}

func (m *Backend) UpdateMeasurement(ctx context.Context, ref model.MeasurementRef, t model.MeasurementType) (model.Measurement, error) {
	args := m.Called(ctx, ref, t)
	return args.Get(0).(model.Measurement), args.Error(1)
}

func (m *Backend) DeleteMeasurement(ctx context.Context, ref model.MeasurementRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *Backend) ListMeasurementParameters(ctx context.Context, ref model.MeasurementRef) ([]model.Parameter, error) {
	args := m.Called(ctx, ref)
	if list, ok := args.Get(0).([]model.Parameter); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) CreateMeasurementParameter(ctx context.Context, ref model.MeasurementRef, p model.Parameter) (model.Parameter, error) {
	args := m.Called(ctx, ref, p)
	return args.Get(0).(model.Parameter), args.Error(1)
}

func (m *Backend) UpdateMeasurementParameter(ctx context.Context, ref model.MeasurementRef, paramID string, value float64) (model.Parameter, error) {
	args := m.Called(ctx, ref, paramID, value)
	return args.Get(0).(model.Parameter), args.Error(1)
}

func (m *Backend) DeleteMeasurementParameter(ctx context.Context, ref model.MeasurementRef, paramID string) error {
	args := m.Called(ctx, ref, paramID)
	return args.Error(0)
}

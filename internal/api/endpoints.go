package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/piwi3910/lumispec/internal/model"
)

func seg(parts ...string) string {
	p := ""
	for _, s := range parts {
		p += "/" + url.PathEscape(s)
	}
	return p
}

func measurementPath(ref model.MeasurementRef) string {
	return "medicao" + seg(ref.ProductID, ref.ProjectID, ref.SampleID, ref.MeasurementID)
}

func measurementParamPath(ref model.MeasurementRef) string {
	return "parametro-medicao" + seg(ref.ProductID, ref.ProjectID, ref.SampleID, ref.MeasurementID)
}

type numberBody struct {
	Number string `json:"numero"`
}

type codeBody struct {
	Code string `json:"codigo"`
}

type measurementBody struct {
	Type model.MeasurementType `json:"tipoMedicao"`
}

type valueBody struct {
	Value float64 `json:"valor"`
}

// Products

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := c.Get(ctx, "produtos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (model.Product, error) {
	var out model.Product
	err := c.Get(ctx, "produtos"+seg(id), &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, in model.ProductInput) (model.Product, error) {
	var out model.Product
	err := c.Post(ctx, "produtos", in, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in model.ProductInput) (model.Product, error) {
	var out model.Product
	err := c.Put(ctx, "produtos"+seg(id), in, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.Delete(ctx, "produtos"+seg(id), nil)
}

// Product parameters

func (c *Client) CreateProductParameter(ctx context.Context, productID string, p model.Parameter) (model.Parameter, error) {
	var out model.Parameter
	err := c.Post(ctx, "parametroProduto"+seg(productID), parameterBody(p), &out)
	return out, err
}

func (c *Client) UpdateProductParameter(ctx context.Context, productID, paramID string, value float64) (model.Parameter, error) {
	var out model.Parameter
	err := c.Put(ctx, "parametroProduto"+seg(productID, paramID), valueBody{Value: value}, &out)
	return out, err
}

// Projects

func (c *Client) ListProjects(ctx context.Context, productID string) ([]model.Project, error) {
	var out []model.Project
	if err := c.Get(ctx, "projeto"+seg(productID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, productID, projectID string) (model.Project, error) {
	var out model.Project
	err := c.Get(ctx, "projeto"+seg(productID, projectID), &out)
	return out, err
}

func (c *Client) CreateProject(ctx context.Context, productID, number string) (model.Project, error) {
	var out model.Project
	err := c.Post(ctx, "projeto"+seg(productID), numberBody{Number: number}, &out)
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, productID, projectID, number string) (model.Project, error) {
	var out model.Project
	err := c.Put(ctx, "projeto"+seg(productID, projectID), numberBody{Number: number}, &out)
	return out, err
}

func (c *Client) DeleteProject(ctx context.Context, productID, projectID string) error {
	return c.Delete(ctx, "projeto"+seg(productID, projectID), nil)
}

// Samples

func (c *Client) ListSamples(ctx context.Context, productID, projectID string) ([]model.Sample, error) {
	var out []model.Sample
	if err := c.Get(ctx, "amostra"+seg(productID, projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSample(ctx context.Context, productID, projectID, code string) (model.Sample, error) {
	var out model.Sample
	err := c.Post(ctx, "amostra"+seg(productID, projectID), codeBody{Code: code}, &out)
	return out, err
}

func (c *Client) UpdateSample(ctx context.Context, productID, projectID, sampleID, code string) (model.Sample, error) {
	var out model.Sample
	err := c.Put(ctx, "amostra"+seg(productID, projectID, sampleID), codeBody{Code: code}, &out)
	return out, err
}

func (c *Client) DeleteSample(ctx context.Context, productID, projectID, sampleID string) error {
	return c.Delete(ctx, "amostra"+seg(productID, projectID, sampleID), nil)
}

// Measurements

func (c *Client) ListMeasurements(ctx context.Context, productID, projectID, sampleID string) ([]model.Measurement, error) {
	var out []model.Measurement
	if err := c.Get(ctx, "medicao"+seg(productID, projectID, sampleID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMeasurement(ctx context.Context, productID, projectID, sampleID string, t model.MeasurementType) (model.Measurement, error) {
	var out model.Measurement
	err := c.Post(ctx, "medicao"+seg(productID, projectID, sampleID), measurementBody{Type: t}, &out)
	return out, err
}

// UpdateMeasurement changes the device of a measurement. The backend exposes
// this as a POST on the measurement path.
func (c *Client) UpdateMeasurement(ctx context.Context, ref model.MeasurementRef, t model.MeasurementType) (model.Measurement, error) {
	var out model.Measurement
	if err := c.do(ctx, http.MethodPost, measurementPath(ref), measurementBody{Type: t}, &out, MsgUpdateFailed); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) DeleteMeasurement(ctx context.Context, ref model.MeasurementRef) error {
	return c.Delete(ctx, measurementPath(ref), nil)
}

// Measurement parameters

func (c *Client) ListMeasurementParameters(ctx context.Context, ref model.MeasurementRef) ([]model.Parameter, error) {
	var out []model.Parameter
	if err := c.Get(ctx, measurementParamPath(ref), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMeasurementParameter(ctx context.Context, ref model.MeasurementRef, p model.Parameter) (model.Parameter, error) {
	var out model.Parameter
	err := c.Post(ctx, measurementParamPath(ref), parameterBody(p), &out)
	return out, err
}

func (c *Client) UpdateMeasurementParameter(ctx context.Context, ref model.MeasurementRef, paramID string, value float64) (model.Parameter, error) {
	var out model.Parameter
	err := c.Put(ctx, measurementParamPath(ref)+seg(paramID), valueBody{Value: value}, &out)
	return out, err
}

func (c *Client) DeleteMeasurementParameter(ctx context.Context, ref model.MeasurementRef, paramID string) error {
	if paramID == "" {
		return fmt.Errorf("delete measurement parameter: empty id")
	}
	return c.Delete(ctx, measurementParamPath(ref)+seg(paramID), nil)
}

type newParameter struct {
	Name  string  `json:"nome"`
	Value float64 `json:"valor"`
	Unit  string  `json:"unidade"`
}

func parameterBody(p model.Parameter) newParameter {
	return newParameter{Name: p.Name, Value: p.Value, Unit: p.Unit}
}

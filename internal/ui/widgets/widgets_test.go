package widgets

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFillsMissingWithEmpty(t *testing.T) {
	fields := []Field{{Name: "nome"}, {Name: "referencia"}, {Name: "tipo", Type: FieldSelect}}
	values := Seed(fields, map[string]string{"nome": "Luminária X", "extra": "x"})

	assert.Equal(t, map[string]string{"nome": "Luminária X", "referencia": "", "tipo": ""}, values)
}

func TestMissing(t *testing.T) {
	fields := []Field{
		{Name: "nome", Label: "Name", Required: true},
		{Name: "referencia", Label: "Reference"},
		{Name: "tipo", Label: "Type", Required: true},
	}
	assert.Equal(t, []string{"Name", "Type"}, Missing(fields, map[string]string{"nome": "  "}))
	assert.Empty(t, Missing(fields, map[string]string{"nome": "a", "tipo": "b"}))
}

func TestDisplayValue(t *testing.T) {
	assert.Equal(t, "-", DisplayValue("-999"))
	assert.Equal(t, "-", DisplayValue("-999.0"))
	assert.Equal(t, "12.5", DisplayValue("12.5"))
	assert.Equal(t, "", DisplayValue(""))
}

func TestValueFilter(t *testing.T) {
	assert.True(t, ValidValue("12,5"))
	assert.True(t, ValidValue("-0.3"))
	assert.True(t, ValidValue(""))
	assert.False(t, ValidValue("12a"))
	assert.Equal(t, "125", FilterValue("1a2b5"))
	assert.Equal(t, "-1,5", FilterValue(" -1,5 V"))
}

func TestCopyRowsIsDeep(t *testing.T) {
	rows := []map[string]string{{"valor": "1"}}
	cp := CopyRows(rows)
	cp[0]["valor"] = "2"
	assert.Equal(t, "1", rows[0]["valor"])
}

func TestSpecTableEmptyShowsPlaceholder(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewTempWindow(t, nil)

	tbl := NewSpecTable([]Column{{Label: "Parameter", Key: "parametro"}, {Label: "Value", Key: ValueKey}}, w)
	objs := tbl.box.Objects
	require.Len(t, objs, 3)
	label, ok := objs[2].(*widget.Label)
	require.True(t, ok)
	assert.Equal(t, EmptyText, label.Text)
}

func TestSpecTableEditReportsRows(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewTempWindow(t, nil)

	tbl := NewSpecTable([]Column{{Label: "Parameter", Key: "parametro"}, {Label: "Value", Key: ValueKey}}, w)
	var got []map[string]string
	tbl.OnChange = func(rows []map[string]string) { got = rows }
	tbl.SetRows([]map[string]string{
		{"parametro": "Potência", ValueKey: "-999"},
		{"parametro": "Tensão", ValueKey: "127"},
	})
	tbl.SetEditMode(true)

	// header, separator, then one grid per row
	require.Len(t, tbl.box.Objects, 4)
	entry := findEntry(t, tbl.box.Objects[2])
	assert.Empty(t, entry.Text)

	test.Type(entry, "9,8x")
	require.NotNil(t, got)
	assert.Equal(t, "9,8", got[0][ValueKey])
	assert.Equal(t, "127", got[1][ValueKey])
	assert.Equal(t, "9,8", tbl.Rows()[0][ValueKey])
}

func findEntry(t *testing.T, row fyne.CanvasObject) *widget.Entry {
	t.Helper()
	grid, ok := row.(*fyne.Container)
	require.True(t, ok)
	for _, o := range grid.Objects {
		if e, ok := o.(*widget.Entry); ok {
			return e
		}
	}
	t.Fatal("row has no entry")
	return nil
}

func TestFormModalSubmitRequiresFields(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewTempWindow(t, nil)

	var submitted map[string]string
	m := NewFormModal("New product", "Create", []Field{
		{Name: "nome", Label: "Name", Required: true},
		{Name: "referencia", Label: "Reference"},
	}, map[string]string{"referencia": "R-1"}, func(v map[string]string) { submitted = v }, w)

	m.trySubmit()
	assert.Nil(t, submitted)
	assert.Contains(t, m.errLabel.Text, "Name")

	m.values["nome"] = "Luminária X"
	m.trySubmit()
	require.NotNil(t, submitted)
	assert.Equal(t, "Luminária X", submitted["nome"])
	assert.Equal(t, "R-1", submitted["referencia"])
}

func TestFormModalLoadingRestoresLabel(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewTempWindow(t, nil)

	m := NewFormModal("Edit", "Save", []Field{{Name: "nome", Label: "Name"}}, nil, func(map[string]string) {}, w)
	m.SetLoading(true)
	assert.Equal(t, "Saving...", m.submit.Text)
	assert.True(t, m.submit.Disabled())
	m.SetLoading(false)
	assert.Equal(t, "Save", m.submit.Text)
	assert.False(t, m.submit.Disabled())
}

func TestBannerShowsLatestMessage(t *testing.T) {
	test.NewTempApp(t)

	b := NewBanner()
	assert.False(t, b.Visible())
	b.ShowSuccess("Product created.")
	b.ShowError("Failed to delete product.")
	assert.True(t, b.Visible())
	assert.Equal(t, "Failed to delete product.", b.Text())

	b.expire(1)
	assert.True(t, b.Visible())
	b.expire(2)
	assert.False(t, b.Visible())
}

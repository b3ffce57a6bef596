package parquetio

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wdm0006/anonymizer/pkg/frame"
	"github.com/wdm0006/anonymizer/pkg/translog"
)

func TestSchemaJSON(t *testing.T) {
	s := frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "0", Type: frame.KindInt},
		{Name: "1", Type: frame.KindFloat},
		{Name: "2", Type: frame.KindString},
		{Name: "3", Type: frame.KindBool},
	}}
	var got struct {
		Tag    string
		Fields []struct{ Tag string }
	}
	require.NoError(t, json.Unmarshal([]byte(parquetSchemaJSON(s)), &got))
	assert.Equal(t, "name=schema, repetitiontype=REQUIRED", got.Tag)
	require.Len(t, got.Fields, 4)
	assert.Equal(t, "name=0, repetitiontype=OPTIONAL, type=INT64", got.Fields[0].Tag)
	assert.Equal(t, "name=1, repetitiontype=OPTIONAL, type=DOUBLE", got.Fields[1].Tag)
	assert.Equal(t, "name=2, repetitiontype=OPTIONAL, type=UTF8", got.Fields[2].Tag)
	assert.Equal(t, "name=3, repetitiontype=OPTIONAL, type=BOOLEAN", got.Fields[3].Tag)
}

func TestLogMetadata(t *testing.T) {
	log := translog.New()
	log.Append(translog.Record{Stage: "feature-round", Args: []translog.Arg{translog.Col("0"), translog.Lit("5")}})
	log.Append(translog.Record{Stage: "feature-categorize", Args: translog.Cols([]string{"2"})})

	kv := logMetadata(log)
	require.Len(t, kv, 2)
	assert.Equal(t, "anonymizer.log.0", kv[0].Key)
	assert.Equal(t, "feature-round 0 5", *kv[0].Value)
	assert.Equal(t, "anonymizer.log.1", kv[1].Key)
	assert.Equal(t, "feature-categorize 2", *kv[1].Value)

	assert.Nil(t, logMetadata(nil))
}

func TestRowJSONSkipsNulls(t *testing.T) {
	f, err := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "a", Type: frame.KindInt},
		{Name: "b", Type: frame.KindString},
	}})
	require.NoError(t, err)
	f.AppendNullRow()
	require.NoError(t, f.SetCell(0, "a", int64(7)))

	a, _ := f.ColumnByName("a")
	b, _ := f.ColumnByName("b")
	got, err := rowJSON([]frame.Column{a, b}, 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":7}`, got)
}

func TestWriteAllLoadRoundTrip(t *testing.T) {
	f, err := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "0", Type: frame.KindInt},
		{Name: "1", Type: frame.KindFloat},
		{Name: "2", Type: frame.KindString},
	}})
	require.NoError(t, err)
	rows := []struct {
		age    int64
		salary any
		dept   any
	}{
		{25, 0.0, "C0"},
		{40, nil, "C1"},
		{35, 1.0, nil},
	}
	for i, r := range rows {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "0", r.age))
		if r.salary != nil {
			require.NoError(t, f.SetCell(i, "1", r.salary))
		}
		if r.dept != nil {
			require.NoError(t, f.SetCell(i, "2", r.dept))
		}
	}
	log := translog.New()
	log.Append(translog.Record{Stage: "feature-categorize", Args: translog.Cols([]string{"2"})})
	log.Append(translog.Record{Stage: "feature-round", Args: []translog.Arg{translog.Col("0"), translog.Lit("5")}})

	path := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, WriteAll(path, f, log))

	got, lines, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"# feature-categorize 2", "# feature-round 0 5"}, lines)
	assert.Equal(t, []string{"0", "1", "2"}, got.Names())
	require.Equal(t, 3, got.Rows())

	c, _ := got.ColumnByName("0")
	ages, ok := c.(*frame.IntColumn)
	require.True(t, ok, "column 0 is %T", c)
	for i, r := range rows {
		v, ok := ages.Get(i)
		assert.True(t, ok)
		assert.Equal(t, r.age, v)
	}

	c, _ = got.ColumnByName("1")
	salary, ok := c.(*frame.FloatColumn)
	require.True(t, ok, "column 1 is %T", c)
	v, ok := salary.Get(0)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
	assert.True(t, salary.IsNull(1))
	v, _ = salary.Get(2)
	assert.Equal(t, 1.0, v)

	c, _ = got.ColumnByName("2")
	dept, ok := c.(*frame.StringColumn)
	require.True(t, ok, "column 2 is %T", c)
	s, _ := dept.Get(0)
	assert.Equal(t, "C0", s)
	s, _ = dept.Get(1)
	assert.Equal(t, "C1", s)
	assert.True(t, dept.IsNull(2))
}

func TestWriteAllKeepsSpacedNames(t *testing.T) {
	f, err := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "first name", Type: frame.KindString},
		{Name: "dept", Type: frame.KindString},
	}})
	require.NoError(t, err)
	f.AppendNullRow()
	require.NoError(t, f.SetCell(0, "first name", "ada"))
	require.NoError(t, f.SetCell(0, "dept", "eng"))

	path := filepath.Join(t.TempDir(), "names.parquet")
	require.NoError(t, WriteAll(path, f, nil))
	got, lines, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, []string{"first name", "dept"}, got.Names())
}

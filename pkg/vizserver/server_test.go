package vizserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XtremeXSPC/dsviz/pkg/pretty"
	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/target/test"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

func testTarget(t *testing.T) *target.Target {
	t.Helper()
	b := test.NewImageBuilder().ScalarTypes().
		AddType(typeinfo.Type{Name: "Node<int>", Size: 16, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "value", Offset: 0, Type: "int"},
			{Name: "next", Offset: 8, Type: "Node<int> *"},
		}}).
		AddType(typeinfo.Type{Name: "Node<int> *", Size: 8, Kind: typeinfo.Ptr, Elem: "Node<int>"}).
		AddType(typeinfo.Type{Name: "Stack<int>", Size: 16, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "top", Offset: 0, Type: "Node<int> *"},
			{Name: "count", Offset: 8, Type: "int"},
		}})

	container := b.Alloc(16)
	n1 := b.Alloc(16)
	n2 := b.Alloc(16)
	b.PutPointer(container, n1)
	b.PutUint(container+8, 4, 2)
	b.PutUint(n1, 4, 1)
	b.PutPointer(n1+8, n2)
	b.PutUint(n2, 4, 2)
	scalarAddr := b.Alloc(4)
	b.PutUint(scalarAddr, 4, 42)

	tgt, err := b.Target()
	require.NoError(t, err)
	s, err := tgt.NewVariable("stack", container, "Stack<int>")
	require.NoError(t, err)
	tgt.RegisterRoot(s)
	n, err := tgt.NewVariable("answer", scalarAddr, "int")
	require.NoError(t, err)
	tgt.RegisterRoot(n)
	return tgt
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return &Server{config: &Config{
		Target:   testTarget(t),
		Registry: pretty.NewDefaultRegistry(),
		Options:  pretty.DefaultOptions(),
	}}
}

func TestHandleVars(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleVars(rec, httptest.NewRequest("GET", "/api/vars", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var vars []varInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&vars))
	require.Len(t, vars, 2)
	assert.Equal(t, "answer", vars[0].Name)
	assert.Equal(t, "42", vars[0].Summary)
	assert.Equal(t, "stack", vars[1].Name)
	assert.Equal(t, "size = 2, [1 -> 2]", vars[1].Summary)
}

func TestHandleStructure(t *testing.T) {
	s := testServer(t)
	rec := httptest.NewRecorder()
	s.handleStructure(rec, httptest.NewRequest("GET", "/api/structure?expr=stack", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var outline pretty.Outline
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&outline))
	assert.Equal(t, "linear", outline.Kind)
	assert.Len(t, outline.Nodes, 2)
	assert.Len(t, outline.Edges, 1)
}

func TestHandleStructureErrors(t *testing.T) {
	s := testServer(t)

	rec := httptest.NewRecorder()
	s.handleStructure(rec, httptest.NewRequest("GET", "/api/structure", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.handleStructure(rec, httptest.NewRequest("GET", "/api/structure?expr=nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A plain scalar is not a visualizable structure.
	rec = httptest.NewRecorder()
	s.handleStructure(rec, httptest.NewRequest("GET", "/api/structure?expr=answer", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServerRun(t *testing.T) {
	srv, err := New(&Config{
		Target:   testTarget(t),
		Registry: pretty.NewDefaultRegistry(),
		Options:  pretty.DefaultOptions(),
	}, "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body := make([]byte, 1024)
	n, _ := resp.Body.Read(body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body[:n]), "<!DOCTYPE html>") || strings.Contains(string(body[:n]), "<html"))

	resp, err = http.Get("http://" + srv.Addr() + "/api/vars")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop())
	assert.NoError(t, <-done)
}

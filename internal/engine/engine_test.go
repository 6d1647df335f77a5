package engine_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semantic-mapper/internal/alignfunc"
	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/engine"
	"semantic-mapper/internal/output"
	"semantic-mapper/internal/plan"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
	"semantic-mapper/internal/semantic"
)

func key(k string) resource.Step {
	return resource.IndexStep(resource.StrIndex(k))
}

func col(i int) resource.Step {
	return resource.IndexStep(resource.IntIndex(i))
}

func rows(start int) resource.Step {
	return resource.RangeStep(start, 1)
}

func mustJSON(t *testing.T, doc string) *reader.Tree {
	t.Helper()

	tree, err := reader.FromJSON(strings.NewReader(doc))
	require.NoError(t, err)

	return tree
}

func mustCSV(t *testing.T, doc string) *reader.Tree {
	t.Helper()

	tree, err := reader.FromCSV(strings.NewReader(doc))
	require.NoError(t, err)

	return tree
}

func edge(t *testing.T, m *semantic.Model, from, to int, pred string, opts semantic.EdgeOptions) {
	t.Helper()

	_, err := m.AddEdge(from, to, pred, opts)
	require.NoError(t, err)
}

// run plans and maps the description into an in-memory graph.
func run(
	t *testing.T,
	attrs alignment.Attributes,
	aligns []alignment.Alignment,
	m *semantic.Model,
	readers reader.Set,
	opts engine.Options,
) (*output.Graph, *engine.Stats, error) {
	t.Helper()

	p, err := plan.Build(attrs, aligns, m, plan.DefaultConfig(), nil)
	require.NoError(t, err)

	g := output.NewGraph(m)
	stats, err := engine.Run(context.Background(), p, readers, g, opts)

	return g, stats, err
}

func ids(g *output.Graph, class int) []string {
	var out []string

	for _, rec := range g.Records() {
		if rec.Class == class {
			out = append(out, rec.ID)
		}
	}

	return out
}

func TestMandatoryPropertyDropsRecord(t *testing.T) {
	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "name", Resource: "company", Path: resource.NewPath(rows(1), col(0)), Unique: true},
		&alignment.Attribute{
			Name: "phone", Resource: "company", Path: resource.NewPath(rows(1), col(1)),
			Missing: resource.NewMissingValues(resource.String("")),
		},
	)

	m := semantic.NewModel(map[string]string{"ex": "http://example.org/"})
	company := m.AddClass("company", "ex:Company")
	edge(t, m, company, m.AddData(0, "name", ""), semantic.IdentifierPredicate, semantic.EdgeOptions{})
	edge(t, m, company, m.AddData(1, "phone", ""), "ex:phone", semantic.EdgeOptions{})

	readers := reader.Set{"company": mustCSV(t, "name,phone\nAcme,555\nGlobex,556\nInitech,\n")}

	g, stats, err := run(t, attrs, nil, m, readers, engine.Options{Config: engine.DefaultConfig()})
	require.NoError(t, err)

	assert.Equal(t, []string{"Acme", "Globex"}, ids(g, company))

	cs, ok := stats.Class("company")
	require.True(t, ok)
	assert.Equal(t, 2, cs.Emitted)
	assert.Equal(t, 1, cs.Dropped)

	acme, ok := g.Record(company, "Acme")
	require.True(t, ok)
	require.Len(t, acme.Data, 1)
	assert.Equal(t, "555", acme.Data[0].Value.String())
}

const (
	customersJSON = `[{"id":1,"name":"Ann"},{"id":2,"name":"Bob"}]`
	ordersJSON    = `[{"id":10,"customer":1},{"id":11,"customer":2},{"id":12,"customer":1}]`
)

func shop(t *testing.T, orders string) (alignment.Attributes, []alignment.Alignment, *semantic.Model, reader.Set, int, int) {
	t.Helper()

	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "order_id", Resource: "orders", Path: resource.NewPath(rows(0), key("id")), Unique: true},
		&alignment.Attribute{Name: "order_customer", Resource: "orders", Path: resource.NewPath(rows(0), key("customer"))},
		&alignment.Attribute{Name: "customer_id", Resource: "customers", Path: resource.NewPath(rows(0), key("id")), Unique: true},
		&alignment.Attribute{Name: "customer_name", Resource: "customers", Path: resource.NewPath(rows(0), key("name"))},
	)
	aligns := []alignment.Alignment{alignment.Value(1, 2)}

	m := semantic.NewModel(map[string]string{"ex": "http://example.org/"})
	order := m.AddClass("order", "ex:Order")
	customer := m.AddClass("customer", "ex:Customer")
	edge(t, m, order, m.AddData(0, "order_id", ""), semantic.IdentifierPredicate, semantic.EdgeOptions{})
	edge(t, m, order, customer, "ex:customer", semantic.EdgeOptions{})
	edge(t, m, customer, m.AddData(2, "customer_id", ""), semantic.IdentifierPredicate, semantic.EdgeOptions{})
	edge(t, m, customer, m.AddData(3, "customer_name", ""), "ex:name", semantic.EdgeOptions{})

	readers := reader.Set{
		"orders":    mustJSON(t, orders),
		"customers": mustJSON(t, customersJSON),
	}

	return attrs, aligns, m, readers, order, customer
}

func TestValueJoinLinksWithoutDuplicates(t *testing.T) {
	attrs, aligns, m, readers, order, customer := shop(t, ordersJSON)

	g, stats, err := run(t, attrs, aligns, m, readers, engine.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, ids(g, customer))
	assert.Equal(t, []string{"10", "11", "12"}, ids(g, order))
	assert.Equal(t, 2, g.Count(customer))

	for id, want := range map[string]string{"10": "1", "11": "2", "12": "1"} {
		rec, ok := g.Record(order, id)
		require.True(t, ok)
		require.Len(t, rec.Links, 1, id)
		assert.Equal(t, want, rec.Links[0].Object, id)
		assert.False(t, rec.Links[0].ObjectSynthetic)
	}

	assert.Equal(t, 5, stats.Total().Emitted)
}

func TestDanglingValueJoinIsFatal(t *testing.T) {
	attrs, aligns, m, readers, _, _ := shop(t, `[{"id":10,"customer":1},{"id":11,"customer":3}]`)

	_, _, err := run(t, attrs, aligns, m, readers, engine.Options{})

	var lookupErr *alignfunc.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "customer_id", lookupErr.Attribute)
}

func TestNullJoinValueDropsMandatoryLink(t *testing.T) {
	attrs, aligns, m, readers, order, _ := shop(t, `[{"id":10,"customer":1},{"id":11,"customer":null}]`)

	// The link is mandatory: order 11 has no customer and is dropped.
	g, stats, err := run(t, attrs, aligns, m, readers, engine.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"10"}, ids(g, order))

	cs, _ := stats.Class("order")
	assert.Equal(t, 1, cs.Dropped)
}

func TestCycleResolvesBufferedLinks(t *testing.T) {
	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "a_id", Resource: "a", Path: resource.NewPath(rows(0), key("id")), Unique: true},
		&alignment.Attribute{Name: "a_b", Resource: "a", Path: resource.NewPath(rows(0), key("b"))},
		&alignment.Attribute{Name: "b_id", Resource: "b", Path: resource.NewPath(rows(0), key("id")), Unique: true},
		&alignment.Attribute{Name: "b_a", Resource: "b", Path: resource.NewPath(rows(0), key("a"))},
	)
	aligns := []alignment.Alignment{alignment.Value(1, 2), alignment.Value(3, 0)}

	m := semantic.NewModel(map[string]string{"ex": "http://example.org/"})
	a := m.AddClass("A", "ex:A")
	b := m.AddClass("B", "ex:B")
	edge(t, m, a, m.AddData(0, "a_id", ""), semantic.IdentifierPredicate, semantic.EdgeOptions{})
	edge(t, m, b, m.AddData(2, "b_id", ""), semantic.IdentifierPredicate, semantic.EdgeOptions{})
	edge(t, m, a, b, "ex:b", semantic.EdgeOptions{})
	edge(t, m, b, a, "ex:a", semantic.EdgeOptions{})

	readers := reader.Set{
		"a": mustJSON(t, `[{"id":"ex:a1","b":"ex:b1"},{"id":"ex:a2","b":"ex:b2"}]`),
		"b": mustJSON(t, `[{"id":"ex:b1","a":"ex:a1"},{"id":"ex:b2","a":"ex:a2"}]`),
	}

	g, stats, err := run(t, attrs, aligns, m, readers, engine.Options{})
	require.NoError(t, err)

	as, ok := stats.Class("A")
	require.True(t, ok)
	assert.Equal(t, 2, as.Buffered)

	for _, pair := range [][2]string{{"ex:a1", "ex:b1"}, {"ex:a2", "ex:b2"}} {
		ra, ok := g.Record(a, pair[0])
		require.True(t, ok)
		require.Len(t, ra.Links, 1)
		assert.Equal(t, pair[1], ra.Links[0].Object)

		rb, ok := g.Record(b, pair[1])
		require.True(t, ok)
		require.Len(t, rb.Links, 1)
		assert.Equal(t, pair[0], rb.Links[0].Object)
	}

	assert.Zero(t, g.DroppedLinks())

	var forward, backward int

	for _, tr := range g.Triples() {
		switch tr.Predicate.Value {
		case "http://example.org/b":
			forward++
		case "http://example.org/a":
			backward++
		}
	}

	assert.Equal(t, 2, forward)
	assert.Equal(t, 2, backward)
}

func people(t *testing.T, optional bool) (alignment.Attributes, *semantic.Model, int) {
	t.Helper()

	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "name", Resource: "people", Path: resource.NewPath(rows(0), key("name"))},
		&alignment.Attribute{
			Name: "uri", Resource: "people", Path: resource.NewPath(rows(0), key("uri")), Unique: true,
			Missing: resource.NewMissingValues(resource.String("")),
		},
	)

	m := semantic.NewModel(map[string]string{"ex": "http://example.org/"})
	person := m.AddClass("person", "ex:Person")
	edge(t, m, person, m.AddData(0, "name", ""), "ex:name", semantic.EdgeOptions{IsSubject: true})
	edge(t, m, person, m.AddData(1, "uri", ""), semantic.IdentifierPredicate, semantic.EdgeOptions{Optional: optional})

	return attrs, m, person
}

func TestOptionalIdentifierFallsBackToSyntheticID(t *testing.T) {
	attrs, m, _ := people(t, true)
	readers := reader.Set{"people": mustJSON(t, `[{"name":"Ann","uri":"ex:ann"},{"name":"Bob","uri":""},{"name":"Cid"}]`)}

	g, _, err := run(t, attrs, nil, m, readers, engine.Options{})
	require.NoError(t, err)

	recs := g.Records()
	require.Len(t, recs, 3)

	assert.Equal(t, "ex:ann", recs[0].ID)
	assert.False(t, recs[0].Synthetic)
	assert.Equal(t, "person:1", recs[1].ID)
	assert.True(t, recs[1].Synthetic)
	assert.Equal(t, "person:2", recs[2].ID)
	assert.True(t, recs[2].Synthetic)

	require.Len(t, recs[1].Data, 1)
	assert.Equal(t, "Bob", recs[1].Data[0].Value.String())
}

func TestMandatoryIdentifierDropsRecord(t *testing.T) {
	attrs, m, person := people(t, false)
	readers := reader.Set{"people": mustJSON(t, `[{"name":"Ann","uri":"ex:ann"},{"name":"Bob","uri":""}]`)}

	g, stats, err := run(t, attrs, nil, m, readers, engine.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"ex:ann"}, ids(g, person))
	assert.Equal(t, 1, stats.Total().Dropped)
}

func TestRepeatedIDIsWrittenOnce(t *testing.T) {
	attrs, m, person := people(t, false)
	readers := reader.Set{"people": mustJSON(t, `[{"name":"Ann","uri":"ex:ann"},{"name":"Anne","uri":"ex:ann"}]`)}

	g, stats, err := run(t, attrs, nil, m, readers, engine.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"ex:ann"}, ids(g, person))
	assert.Equal(t, 1, stats.Total().Duplicates)

	rec, _ := g.Record(person, "ex:ann")
	assert.Equal(t, "Ann", rec.Data[0].Value.String())
}

func tagged(t *testing.T) (alignment.Attributes, *semantic.Model, reader.Set) {
	t.Helper()

	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "name", Resource: "posts", Path: resource.NewPath(rows(0), key("name")), Unique: true},
		&alignment.Attribute{Name: "tag", Resource: "posts", Path: resource.NewPath(rows(0), key("tag"))},
	)

	m := semantic.NewModel(nil)
	post := m.AddClass("post", "")
	edge(t, m, post, m.AddData(0, "name", ""), "ex:name", semantic.EdgeOptions{IsSubject: true})
	edge(t, m, post, m.AddData(1, "tag", ""), "ex:tag", semantic.EdgeOptions{Optional: true})

	readers := reader.Set{"posts": mustJSON(t, `[{"name":"a","tag":"go"},{"name":"b","tag":["x","y"]}]`)}

	return attrs, m, readers
}

func TestNonScalarValueDropsRecord(t *testing.T) {
	attrs, m, readers := tagged(t)

	g, stats, err := run(t, attrs, nil, m, readers, engine.Options{})
	require.NoError(t, err)

	assert.Len(t, g.Records(), 1)
	assert.Equal(t, 1, stats.Total().ShapeErrors)
}

func TestLinkSkipsRecordDroppedOnShapeError(t *testing.T) {
	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "name", Resource: "posts", Path: resource.NewPath(rows(0), key("name")), Unique: true},
		&alignment.Attribute{Name: "tag", Resource: "posts", Path: resource.NewPath(rows(0), key("tag"))},
		&alignment.Attribute{Name: "ref", Resource: "posts", Path: resource.NewPath(rows(0), key("ref")), Unique: true},
	)

	m := semantic.NewModel(nil)
	post := m.AddClass("post", "")
	ref := m.AddClass("ref", "")
	edge(t, m, post, m.AddData(0, "name", ""), "ex:name", semantic.EdgeOptions{IsSubject: true})
	edge(t, m, post, m.AddData(1, "tag", ""), "ex:tag", semantic.EdgeOptions{Optional: true})
	edge(t, m, ref, m.AddData(2, "ref", ""), semantic.IdentifierPredicate, semantic.EdgeOptions{})
	edge(t, m, ref, post, "ex:post", semantic.EdgeOptions{Optional: true})

	readers := reader.Set{"posts": mustJSON(t, `[{"name":"a","tag":"go","ref":"r1"},{"name":"b","tag":["x","y"],"ref":"r2"}]`)}

	p, err := plan.Build(attrs, nil, m, plan.DefaultConfig(), nil)
	require.NoError(t, err)

	rp, ok := p.Class(ref)
	require.True(t, ok)
	require.Len(t, rp.ObjectProps, 1)
	assert.False(t, rp.ObjectProps[0].IsTargetOptional)

	g := output.NewGraph(m)
	stats, err := engine.Run(context.Background(), p, readers, g, engine.Options{})
	require.NoError(t, err)

	ps, ok := stats.Class("post")
	require.True(t, ok)
	assert.Equal(t, 1, ps.ShapeErrors)
	require.Len(t, ids(g, post), 1)

	r1, ok := g.Record(ref, "r1")
	require.True(t, ok)
	require.Len(t, r1.Links, 1)
	assert.Equal(t, ids(g, post)[0], r1.Links[0].Object)

	r2, ok := g.Record(ref, "r2")
	require.True(t, ok)
	assert.Empty(t, r2.Links)
}

func TestStrictShapesAborts(t *testing.T) {
	attrs, m, readers := tagged(t)

	cfg := engine.DefaultConfig()
	cfg.StrictShapes = true

	_, _, err := run(t, attrs, nil, m, readers, engine.Options{Config: cfg})

	var shapeErr *engine.UnsupportedShapeError
	require.True(t, errors.As(err, &shapeErr))
	assert.Equal(t, "tag", shapeErr.Attribute)
	assert.Equal(t, resource.KindArray, shapeErr.Kind)
}

func TestRunRegistersMetrics(t *testing.T) {
	attrs, aligns, m, readers, _, _ := shop(t, ordersJSON)
	reg := prometheus.NewRegistry()

	_, _, err := run(t, attrs, aligns, m, readers, engine.Options{Registerer: reg})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	total := 0.0

	for _, f := range families {
		if f.GetName() != "semantic_mapper_engine_records_total" {
			continue
		}

		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}

	assert.InDelta(t, 5, total, 0)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	attrs, aligns, m, readers, _, _ := shop(t, ordersJSON)

	p, err := plan.Build(attrs, aligns, m, plan.DefaultConfig(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := engine.Run(ctx, p, readers, output.NewGraph(m), engine.Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stats.Classes)
}

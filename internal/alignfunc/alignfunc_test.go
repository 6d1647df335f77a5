package alignfunc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/cursor"
	"semantic-mapper/internal/reader"
	"semantic-mapper/internal/resource"
)

const (
	ordersJSON    = `[{"id":10,"customer":1},{"id":11,"customer":2},{"id":12,"customer":1},{"id":13,"customer":null}]`
	customersJSON = `[{"id":1,"name":"Ann"},{"id":2,"name":"Bob"}]`
)

const (
	orderID = iota
	orderCustomer
	customerID
	customerName
)

func key(k string) resource.Step {
	return resource.IndexStep(resource.StrIndex(k))
}

func rows() resource.Step {
	return resource.RangeStep(0, 1)
}

func mustJSON(t *testing.T, doc string) *reader.Tree {
	t.Helper()

	tree, err := reader.FromJSON(strings.NewReader(doc))
	require.NoError(t, err)

	return tree
}

func shop(t *testing.T) (alignment.Attributes, reader.Set) {
	t.Helper()

	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "order_id", Resource: "orders", Path: resource.NewPath(rows(), key("id")), Unique: true},
		&alignment.Attribute{Name: "order_customer", Resource: "orders", Path: resource.NewPath(rows(), key("customer"))},
		&alignment.Attribute{Name: "customer_id", Resource: "customers", Path: resource.NewPath(rows(), key("id")), Unique: true},
		&alignment.Attribute{Name: "customer_name", Resource: "customers", Path: resource.NewPath(rows(), key("name"))},
	)

	readers := reader.Set{
		"orders":    mustJSON(t, ordersJSON),
		"customers": mustJSON(t, customersJSON),
	}

	return attrs, readers
}

func row(i int, k string) resource.Position {
	return resource.Position{resource.IntIndex(i), resource.StrIndex(k)}
}

func drain(t *testing.T, c cursor.Cursor) []resource.Position {
	t.Helper()

	var out []resource.Position
	for c.Advance() {
		out = append(out, c.Value().Clone())
	}

	require.NoError(t, c.Err())

	return out
}

func TestValueSingleJoinsOnUniqueTarget(t *testing.T) {
	attrs, readers := shop(t)
	b := NewBuilder(attrs, readers)

	fn, err := b.Build([]alignment.Alignment{alignment.Value(orderCustomer, customerID)})
	require.NoError(t, err)

	single, ok := fn.(Single)
	require.True(t, ok)
	assert.True(t, single.UsesSourceValue())

	tgt := attrs[customerID].Path.NewPosition()

	got, err := single.Align(row(0, "customer"), resource.Int(1), tgt)
	require.NoError(t, err)
	assert.Equal(t, row(0, "id"), got)

	got, err = single.Align(row(1, "customer"), resource.Int(2), tgt)
	require.NoError(t, err)
	assert.Equal(t, row(1, "id"), got)

	// The same value always lands on the same row.
	got, err = single.Align(row(2, "customer"), resource.Float(1), tgt)
	require.NoError(t, err)
	assert.Equal(t, row(0, "id"), got)
}

func TestValueLookupOutsideIndexFails(t *testing.T) {
	attrs, readers := shop(t)

	fn, err := NewBuilder(attrs, readers).Build([]alignment.Alignment{alignment.Value(orderCustomer, customerID)})
	require.NoError(t, err)

	_, err = fn.(Single).Align(row(0, "customer"), resource.Int(7), attrs[customerID].Path.NewPosition())

	var lookupErr *LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.Equal(t, "customer_id", lookupErr.Attribute)
	assert.Contains(t, err.Error(), "7")
}

func TestValueMultipleEnumeratesOccurrences(t *testing.T) {
	attrs, readers := shop(t)

	fn, err := NewBuilder(attrs, readers).Build([]alignment.Alignment{alignment.Value(customerID, orderCustomer)})
	require.NoError(t, err)

	multi, ok := fn.(Multiple)
	require.True(t, ok)

	tgt := attrs[orderCustomer].Path.NewPosition()

	c, err := multi.Iterate(row(0, "id"), resource.Int(1), tgt)
	require.NoError(t, err)
	assert.Equal(t, []resource.Position{row(0, "customer"), row(2, "customer")}, drain(t, c))

	c, err = multi.Iterate(row(1, "id"), resource.Int(2), tgt)
	require.NoError(t, err)
	assert.Equal(t, []resource.Position{row(1, "customer")}, drain(t, c))
}

func TestRangeSingleSwapRoundTrip(t *testing.T) {
	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "code", Resource: "a", Path: resource.NewPath(resource.BoundedRangeStep(1, 7, 2), key("code"))},
		&alignment.Attribute{Name: "label", Resource: "b", Path: resource.NewPath(resource.BoundedRangeStep(0, 3, 1), key("label"))},
	)

	align := alignment.Range(0, 1, alignment.DimPair{Source: 0, Target: 0})
	b := NewBuilder(attrs, reader.Set{})

	forward, err := b.BuildSingle([]alignment.Alignment{align})
	require.NoError(t, err)

	backward, err := b.BuildSingle([]alignment.Alignment{align.Swap()})
	require.NoError(t, err)

	for _, s := range []int{1, 3, 5} {
		src := resource.Position{resource.IntIndex(s), resource.StrIndex("code")}

		mid, err := forward.Align(src, resource.Null(), attrs[1].Path.NewPosition())
		require.NoError(t, err)
		assert.Equal(t, (s-1)/2, mid[0].Int)

		back, err := backward.Align(mid, resource.Null(), attrs[0].Path.NewPosition())
		require.NoError(t, err)
		assert.Equal(t, src, back)
	}
}

func TestRangeSinglePartialAlign(t *testing.T) {
	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "cell", Resource: "m", Path: resource.NewPath(rows(), rows())},
		&alignment.Attribute{Name: "copy", Resource: "n", Path: resource.NewPath(rows(), rows())},
	)

	fn, err := NewBuilder(attrs, reader.Set{}).BuildSingle([]alignment.Alignment{
		alignment.Range(0, 1, alignment.DimPair{Source: 0, Target: 0}, alignment.DimPair{Source: 1, Target: 1}),
	})
	require.NoError(t, err)

	tgt := attrs[1].Path.NewPosition()

	_, err = fn.Align(resource.Position{resource.IntIndex(2), resource.IntIndex(3)}, resource.Null(), tgt)
	require.NoError(t, err)

	got, err := fn.PartialAlign(resource.Position{resource.IntIndex(9), resource.IntIndex(4)}, resource.Null(), tgt, 1)
	require.NoError(t, err)
	assert.Equal(t, resource.Position{resource.IntIndex(2), resource.IntIndex(4)}, got)
}

func TestRangeMultipleEnumeratesFreeDims(t *testing.T) {
	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "name", Resource: "r", Path: resource.NewPath(rows(), key("name"))},
		&alignment.Attribute{Name: "tags", Resource: "r", Path: resource.NewPath(rows(), key("tags"), rows())},
	)
	readers := reader.Set{"r": mustJSON(t, `[{"name":"a","tags":["x","y"]},{"name":"b","tags":[]},{"name":"c","tags":["z"]}]`)}

	fn, err := NewBuilder(attrs, readers).Build([]alignment.Alignment{
		alignment.Range(0, 1, alignment.DimPair{Source: 0, Target: 0}),
	})
	require.NoError(t, err)

	multi, ok := fn.(Multiple)
	require.True(t, ok)

	tgt := attrs[1].Path.NewPosition()
	tag := func(i, j int) resource.Position {
		return resource.Position{resource.IntIndex(i), resource.StrIndex("tags"), resource.IntIndex(j)}
	}

	first, err := multi.Iterate(row(0, "name"), resource.Null(), tgt)
	require.NoError(t, err)
	assert.Equal(t, []resource.Position{tag(0, 0), tag(0, 1)}, drain(t, first))

	c, err := multi.Iterate(row(1, "name"), resource.Null(), tgt)
	require.NoError(t, err)
	assert.Empty(t, drain(t, c))
	assert.Same(t, first, c)

	c, err = multi.Iterate(row(2, "name"), resource.Null(), tgt)
	require.NoError(t, err)
	assert.Equal(t, []resource.Position{tag(2, 0)}, drain(t, c))
}

func TestChainSingleThreadsValues(t *testing.T) {
	attrs, readers := shop(t)

	fn, err := NewBuilder(attrs, readers).BuildSingle([]alignment.Alignment{
		alignment.Range(orderID, orderCustomer, alignment.DimPair{Source: 0, Target: 0}),
		alignment.Value(orderCustomer, customerID),
		alignment.Range(customerID, customerName, alignment.DimPair{Source: 0, Target: 0}),
	})
	require.NoError(t, err)

	chain, ok := fn.(*ChainSingle)
	require.True(t, ok)
	assert.False(t, chain.UsesSourceValue())

	tgt := attrs[customerName].Path.NewPosition()

	got, err := chain.Align(row(2, "id"), resource.Int(12), tgt)
	require.NoError(t, err)
	assert.Equal(t, row(0, "name"), got)

	_, err = chain.Align(row(3, "id"), resource.Int(13), tgt)
	assert.ErrorIs(t, err, ErrNoValue)
}

func TestBuildPicksChainKind(t *testing.T) {
	attrs, readers := shop(t)
	b := NewBuilder(attrs, readers)

	fn, err := b.Build([]alignment.Alignment{
		alignment.Value(customerID, orderCustomer),
		alignment.Range(orderCustomer, orderID, alignment.DimPair{Source: 0, Target: 0}),
	})
	require.NoError(t, err)

	chain, ok := fn.(*ChainMultiple)
	require.True(t, ok)
	assert.False(t, chain.Deduplicates())

	c, err := chain.Iterate(row(0, "id"), resource.Int(1), attrs[orderID].Path.NewPosition())
	require.NoError(t, err)
	assert.Equal(t, []resource.Position{row(0, "id"), row(2, "id")}, drain(t, c))

	fn, err = b.Build([]alignment.Alignment{
		alignment.Range(orderID, orderCustomer, alignment.DimPair{Source: 0, Target: 0}),
		alignment.Value(orderCustomer, customerID),
	})
	require.NoError(t, err)

	chain, ok = fn.(*ChainMultiple)
	require.True(t, ok)
	assert.True(t, chain.Deduplicates())

	_, err = b.BuildSingle([]alignment.Alignment{alignment.Value(customerID, orderCustomer)})
	assert.Error(t, err)
}

func TestChainDedupYieldsEachTargetOnce(t *testing.T) {
	attrs, readers := shop(t)
	b := NewBuilder(attrs, readers)

	// customer -> its orders -> back to the customer: every order of the
	// customer reaches the same row.
	aligns := []alignment.Alignment{
		alignment.Value(customerID, orderCustomer),
		alignment.Value(orderCustomer, customerID),
	}

	raw, err := b.buildChainMultiple(aligns, false)
	require.NoError(t, err)

	c, err := raw.Iterate(row(0, "id"), resource.Int(1), attrs[customerID].Path.NewPosition())
	require.NoError(t, err)
	assert.Len(t, drain(t, c), 2)

	fn, err := b.Build(aligns)
	require.NoError(t, err)

	chain := fn.(*ChainMultiple)
	require.True(t, chain.Deduplicates())

	tgt := attrs[customerID].Path.NewPosition()

	for i := 0; i < 2; i++ {
		c, err = chain.Iterate(row(0, "id"), resource.Int(1), tgt)
		require.NoError(t, err)
		assert.Equal(t, []resource.Position{row(0, "id")}, drain(t, c))
	}
}

func TestChainMultipleSkipsMissingIntermediate(t *testing.T) {
	attrs, readers := shop(t)

	fn, err := NewBuilder(attrs, readers).Build([]alignment.Alignment{
		alignment.Range(orderID, orderCustomer, alignment.DimPair{Source: 0, Target: 0}),
		alignment.Value(orderCustomer, customerID),
		alignment.Range(customerID, customerName, alignment.DimPair{Source: 0, Target: 0}),
	})
	require.NoError(t, err)

	multi := fn.(Multiple)
	tgt := attrs[customerName].Path.NewPosition()

	c, err := multi.Iterate(row(3, "id"), resource.Int(13), tgt)
	require.NoError(t, err)
	assert.Empty(t, drain(t, c))

	c, err = multi.Iterate(row(1, "id"), resource.Int(11), tgt)
	require.NoError(t, err)
	assert.Equal(t, []resource.Position{row(1, "name")}, drain(t, c))
}

func TestChainFreezeLastStepYieldsParentPositions(t *testing.T) {
	attrs := alignment.NewAttributes(
		&alignment.Attribute{Name: "customer_id", Resource: "customers", Path: resource.NewPath(rows(), key("id")), Unique: true},
		&alignment.Attribute{Name: "order_customer", Resource: "orders", Path: resource.NewPath(rows(), key("customer"))},
		&alignment.Attribute{Name: "item_sku", Resource: "orders", Path: resource.NewPath(rows(), key("items"), rows(), key("sku"))},
	)
	readers := reader.Set{
		"customers": mustJSON(t, customersJSON),
		"orders": mustJSON(t, `[
			{"customer":1,"items":[{"sku":"a"},{"sku":"b"}]},
			{"customer":2,"items":[{"sku":"c"}]},
			{"customer":1,"items":[{"sku":"d"}]}
		]`),
	}

	fn, err := NewBuilder(attrs, readers).Build([]alignment.Alignment{
		alignment.Value(0, 1),
		alignment.Range(1, 2, alignment.DimPair{Source: 0, Target: 0}),
	})
	require.NoError(t, err)

	chain, ok := fn.(*ChainMultiple)
	require.True(t, ok)

	item := func(i, j int) resource.Position {
		return resource.Position{resource.IntIndex(i), resource.StrIndex("items"), resource.IntIndex(j), resource.StrIndex("sku")}
	}

	tgt := attrs[2].Path.NewPosition()

	c, err := chain.Iterate(row(0, "id"), resource.Int(1), tgt)
	require.NoError(t, err)

	require.True(t, c.Advance())
	assert.Equal(t, item(0, 0), c.Value())

	// Order 0 has no item left at the order level; order 2 is reopened
	// frozen as well.
	c.FreezeLastStep()
	assert.Equal(t, []resource.Position{item(2, 0)}, drain(t, c))

	c, err = chain.Iterate(row(0, "id"), resource.Int(1), tgt)
	require.NoError(t, err)
	assert.Equal(t, []resource.Position{item(0, 0), item(0, 1), item(2, 0)}, drain(t, c))
}

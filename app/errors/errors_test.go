// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package errors_test

import (
	"context"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/obolnetwork/attester/app/errors"
	"github.com/obolnetwork/attester/app/z"
)

func TestComparable(t *testing.T) {
	require.False(t, reflect.TypeOf(errors.New("x")).Comparable())
}

func TestIs(t *testing.T) {
	errX := errors.New("x")

	err1 := errors.New("1", z.Str("1", "1"))
	err11 := errors.Wrap(err1, "w1")
	err111 := errors.Wrap(err11, "w2")

	require.True(t, errors.Is(err11, err1))
	require.True(t, errors.Is(err111, err1))
	require.False(t, errors.Is(err1, err11))
	require.True(t, errors.Is(err111, err11))
	require.False(t, errors.Is(err111, errX))

	errIO1 := errors.Wrap(io.EOF, "w1")
	errIO11 := errors.Wrap(errIO1, "w1")

	require.True(t, errors.Is(errIO1, io.EOF))
	require.True(t, errors.Is(errIO11, io.EOF))
	require.False(t, errors.Is(io.EOF, errIO1))
	require.False(t, errors.Is(errIO1, errIO11))
}

func TestSentinel(t *testing.T) {
	errSentinel := errors.NewSentinel("sentinel", z.Int("code", 1))

	wrapped := errors.Wrap(errSentinel, "lookup", z.Str("tx", "0x01"))
	require.ErrorIs(t, wrapped, errSentinel)
	require.Equal(t, "lookup: sentinel", wrapped.Error())

	require.True(t, z.ContainsField(wrapped, z.Int("code", 1)))
	require.True(t, z.ContainsField(wrapped, z.Str("tx", "0x01")))
}

func TestJoin(t *testing.T) {
	err1 := errors.New("one")
	err2 := errors.Wrap(io.EOF, "two")

	joined := errors.Join(err1, err2)
	require.ErrorIs(t, joined, err1)
	require.ErrorIs(t, joined, io.EOF)
}

func TestWithCtxErr(t *testing.T) {
	msg := "wrap"

	ctx, cancel := context.WithCancel(context.Background())
	ctx = errors.WithCtxErr(ctx, msg)

	cancel()
	require.Contains(t, ctx.Err().Error(), msg)
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}

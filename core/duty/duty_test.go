// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

package duty_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/obolnetwork/attester/core"
	"github.com/obolnetwork/attester/core/duty"
	"github.com/obolnetwork/attester/testutil"
)

func TestIsTurnToPropose(t *testing.T) {
	self := testutil.RandomAddress()
	other := testutil.RandomAddress()

	tests := []struct {
		name     string
		slot     core.Slot
		snapshot core.ProposerSnapshot
		expect   bool
	}{
		{
			name:     "current proposer",
			slot:     10,
			snapshot: core.ProposerSnapshot{CurrentProposer: self, NextProposer: other, CurrentSlot: 10, NextSlot: 11},
			expect:   true,
		},
		{
			name:     "next proposer",
			slot:     11,
			snapshot: core.ProposerSnapshot{CurrentProposer: other, NextProposer: self, CurrentSlot: 10, NextSlot: 11},
			expect:   true,
		},
		{
			name:     "current proposer wrong slot",
			slot:     11,
			snapshot: core.ProposerSnapshot{CurrentProposer: self, NextProposer: other, CurrentSlot: 10, NextSlot: 11},
			expect:   false,
		},
		{
			name:     "other proposer",
			slot:     10,
			snapshot: core.ProposerSnapshot{CurrentProposer: other, NextProposer: other, CurrentSlot: 10, NextSlot: 11},
			expect:   false,
		},
		{
			name:     "both slots",
			slot:     11,
			snapshot: core.ProposerSnapshot{CurrentProposer: self, NextProposer: self, CurrentSlot: 10, NextSlot: 11},
			expect:   true,
		},
		{
			name:     "unknown slot",
			slot:     12,
			snapshot: core.ProposerSnapshot{CurrentProposer: self, NextProposer: self, CurrentSlot: 10, NextSlot: 11},
			expect:   false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expect, duty.IsTurnToPropose(test.slot, test.snapshot, self))
		})
	}
}

func TestCanAttest(t *testing.T) {
	proposerA := testutil.RandomAddress()
	proposerB := testutil.RandomAddress()
	snapshot := core.ProposerSnapshot{CurrentProposer: proposerA, NextProposer: proposerB, CurrentSlot: 20, NextSlot: 21}

	tests := []struct {
		name        string
		slot        core.Slot
		proposer    core.Address
		inCommittee bool
		expect      duty.Verdict
	}{
		{name: "current slot", slot: 20, proposer: proposerA, inCommittee: true, expect: duty.Eligible},
		{name: "next slot", slot: 21, proposer: proposerB, inCommittee: true, expect: duty.Eligible},
		{name: "past slot", slot: 19, proposer: proposerA, inCommittee: true, expect: duty.WrongSlot},
		{name: "future slot", slot: 22, proposer: proposerB, inCommittee: true, expect: duty.WrongSlot},
		{name: "next proposer in current slot", slot: 20, proposer: proposerB, inCommittee: true, expect: duty.ProposerMismatch},
		{name: "unknown proposer", slot: 21, proposer: testutil.RandomAddress(), inCommittee: true, expect: duty.ProposerMismatch},
		{name: "not in committee", slot: 20, proposer: proposerA, inCommittee: false, expect: duty.NotInCommittee},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			verdict := duty.CanAttest(test.slot, snapshot, test.proposer, test.inCommittee)
			require.Equal(t, test.expect, verdict)
			require.Equal(t, test.expect == duty.Eligible, verdict.Eligible())
		})
	}
}

func TestExpectedProposerCurrentFirst(t *testing.T) {
	current := testutil.RandomAddress()
	snapshot := core.ProposerSnapshot{CurrentProposer: current, NextProposer: testutil.RandomAddress(), CurrentSlot: 5, NextSlot: 5}

	proposer, ok := duty.ExpectedProposer(5, snapshot)
	require.True(t, ok)
	require.Equal(t, current, proposer)
}

func TestVerdictString(t *testing.T) {
	require.Equal(t, "eligible", duty.Eligible.String())
	require.Equal(t, "wrong_slot", duty.WrongSlot.String())
	require.Equal(t, "proposer_mismatch", duty.ProposerMismatch.String())
	require.Equal(t, "not_in_committee", duty.NotInCommittee.String())
	require.Equal(t, "unknown", duty.Verdict(99).String())
}

package usecase

import (
	"based/domain"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuardOneCallPerUnit(t *testing.T) {
	height := uint64(100)
	guard := NewEntryGuard(func() uint64 { return height })

	done, err := guard.Enter("alice")
	require.NoError(t, err)
	done(nil)

	// Same origin, same unit: rejected. A different origin is fine.
	_, err = guard.Enter("alice")
	require.ErrorIs(t, err, domain.ErrorOneCallPerUnit)

	done, err = guard.Enter("bob")
	require.NoError(t, err)
	done(nil)

	// The next unit opens the slot again.
	height++
	done, err = guard.Enter("alice")
	require.NoError(t, err)
	done(nil)
}

func TestGuardRejectsWhileActive(t *testing.T) {
	height := uint64(1)
	guard := NewEntryGuard(func() uint64 { height++; return height })

	done, err := guard.Enter("alice")
	require.NoError(t, err)

	_, err = guard.Enter("bob")
	require.ErrorIs(t, err, domain.ErrorReentrantCall)

	done(nil)
	done, err = guard.Enter("bob")
	require.NoError(t, err)
	done(nil)
}

func TestGuardFailureLeavesNoTrace(t *testing.T) {
	height := uint64(7)
	guard := NewEntryGuard(func() uint64 { return height })

	// A failed call releases the slot: the retry in the same unit succeeds.
	done, err := guard.Enter("alice")
	require.NoError(t, err)
	done(fmt.Errorf("operation rejected"))

	done, err = guard.Enter("alice")
	require.NoError(t, err)
	done(nil)

	// Now the slot is burned for this unit.
	_, err = guard.Enter("alice")
	require.ErrorIs(t, err, domain.ErrorOneCallPerUnit)
}

func TestGuardFailureRestoresPreviousUnit(t *testing.T) {
	height := uint64(1)
	guard := NewEntryGuard(func() uint64 { return height })

	done, err := guard.Enter("alice")
	require.NoError(t, err)
	done(nil)

	// A failure in unit 2 rolls back to the unit 1 entry, so unit 2 is
	// still open for a retry while unit 1 stays burned.
	height = 2
	done, err = guard.Enter("alice")
	require.NoError(t, err)
	done(fmt.Errorf("operation rejected"))

	done, err = guard.Enter("alice")
	require.NoError(t, err)
	done(nil)

	height = 1
	_, err = guard.Enter("alice")
	require.ErrorIs(t, err, domain.ErrorOneCallPerUnit)
}

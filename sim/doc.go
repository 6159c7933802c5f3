// Package sim provides the core time-stepped engine of the mainframe market
// simulation.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: the closed set of broadcast kinds
//   - world.go: the clock, the tick phases and acquisition bookkeeping
//   - enterprise.go: the agent shell that buffers notifications for its Policy
//
// # Tick ordering
//
// Each World.Step advances the clock by one day. Lifecycle events dated on the
// pre-advance day are applied to the ledger first, then acquisitions from the
// previous tick are turned into VolumeIncreased broadcasts, then every
// enterprise is notified and, in binding order, asked to decide. An
// acquisition changes the ledger at once; other enterprises hear about it on
// the next tick.
//
// # Key Interfaces
//
//   - Policy: decide what to acquire given one tick of notifications
//   - Handle: the enterprise capabilities a Policy may use
//
// Two policies ship with the package: SimpleMarkov (renewal chain with an
// absorbing stagnancy state) and GrowingMarkov (monthly fleet growth over a
// FamilyIndex shared by the instances of one world).
//
// Sub-packages:
//   - sim/lifecycle/: lifecycle timeline CSV reader
//   - sim/trace/: decision trace recording and export
//   - sim/ledgerdb/: SQLite export of a finished run
package sim

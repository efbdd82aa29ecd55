// Package syncer copies an asset group from an extracted bundle into a
// project while protecting files the user has edited since the last install.
//
// Every run is split into Plan and Apply. Plan walks the source tree and
// classifies each file against the prior ledger:
//
//	destination missing                      Add
//	destination already equals incoming      SkipUnchanged
//	no prior ledger                          Update (unconditional)
//	path not in prior ledger                 SkipCustomized
//	destination matches recorded fingerprint Update
//	anything else                            SkipCustomized
//
// Apply performs the writes. The result always records the incoming
// fingerprint for every source file, whatever happened on disk, so the next
// run compares the user's copy with what was last shipped. Nothing is ever
// deleted.
package syncer

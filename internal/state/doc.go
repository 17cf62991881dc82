// Package state persists what has been organized so far.
//
// The store maps (group, member) to the placement committed for it, plus a
// lightweight scan-marker set recording which file identities were already
// classified. Both snapshots are written whole via an atomic
// temp-file-then-rename, so an interrupted run leaves either the previous
// complete snapshot or the new one, never a mixture. A corrupt placement
// snapshot is an error (continuing would desynchronize future incremental
// runs); corrupt scan markers only cost a re-classification pass.
package state

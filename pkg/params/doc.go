// Package params is the runtime parameter store for the hashload workload
// engine: the schema that tells concurrent hasher workers how much CPU,
// memory and page cache to pressure, and the gains for the two PID
// controllers (latency-targeting and RPS-targeting) that modulate
// concurrency.
//
// The package owns the data model and the document format only. The engine
// consumes validated snapshots; sampling, hashing and the controller update
// equations live elsewhere.
//
// Model
//
//   - Params is a pure value type. Default() yields the compiled-in
//     baseline; Load overlays a document's keys on top of the defaults, so
//     a partial document is always a complete snapshot and unknown keys are
//     ignored (documents and binaries can evolve independently).
//   - Validation is permissive on purpose: the single enforced rule is the
//     FileFracMin floor on file_frac. Everything else, including _frac
//     values above 1.0, is passed through for the engine to judge.
//   - Save emits a fixed //-commented preamble documenting every field,
//     then indented JSON in stable field order. load(save(p)) == p, modulo
//     the file_frac floor.
//
// Hot reload
//
// Store holds the published snapshot behind an atomic pointer. Reload
// parses, validates, then swaps the whole handle, so workers reading
// mid-reload see either the old document or the new one, never a blend.
// A failed reload leaves the old snapshot in effect.
//
// Example:
//
//	/*
//	st := params.NewStore()
//	go controlLoop(st)
//
//	// in the control loop, on each tick:
//	if data, err := os.ReadFile(paramsPath); err == nil {
//	    if _, err := st.Reload(data); err != nil {
//	        log.Printf("params reload rejected: %v", err)
//	    }
//	}
//
//	// in a worker:
//	p := st.Snapshot()
//	pad := p.LogPadding()
//	*/
package params

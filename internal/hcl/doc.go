// Package hcl loads extraction pipeline manifests. A manifest names the
// nodes to run and the run's scheduling knobs, and seeds the execution
// context with named resources and pre-computed features:
//
//	extraction {
//	  nodes     = ["build_meta", "test_metrics"]
//	  parallel  = true
//	  fail_fast = false
//	  workers   = 4
//	}
//
//	resource "build_record" {
//	  value = { duration_seconds = 312, status = "passed" }
//	}
//
//	seed "commit_shas" {
//	  value = ["3f1c2aa", "9b40d11"]
//	}
//
// Resource and seed values are arbitrary HCL expressions, converted to plain
// Go values (numbers, strings, booleans, lists, maps) before they reach the
// engine.
package hcl

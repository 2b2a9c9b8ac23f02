// Package rulefile loads rule definitions from a YAML file and keeps a rule
// store in step with it.
//
// A rule file looks like:
//
//	rules:
//	  - name: fitness
//	    expression: steps > 10000 AND bmi < 25
//	    description: Active members with a healthy BMI
//	  - name: seniors
//	    expression: age >= 65
//
// Sync upserts by name: new names are created, changed expressions replace
// the stored rule under its existing ID. With watching enabled, a Watcher
// reruns the load and sync whenever the file changes, after a short
// debounce.
package rulefile

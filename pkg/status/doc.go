/*
Package status holds the run model shared by the engine and the console.

🎯 Purpose:
  - Decision: what happens to one file (skip, copy, delete)
  - Event: one decided copy or delete, with the reason and any failure
  - Result: counters plus the ordered action log of a run
  - FileFormatter: renders events, the banner and the summary line

Counters count decisions. A failed copy or delete is counted in Failed
instead of Copied or Removed, so a dry run reports what a clean live run
would report.
*/
package status

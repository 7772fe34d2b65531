/*
Package operation implements the mirror engine.

	+-------------+      +-------------+
	|  Copy pass  | ---> | Delete pass |
	| (src walk)  |      | (dest walk) |
	+------+------+      +------+------+
	       |                    |
	       +------ Policy ------+

🎯 Purpose:
- Walks the source tree and copies new or stale files into the destination
- Optionally walks the destination tree and removes files the source no longer has
- Reports every decision to a Reporter and folds it into a status.Result

🔄 Flow:
1. Validate the source root (ErrMissingSource)
2. Load ignore rules from the source root, if configured
3. Copy pass, then delete pass when enabled

A file is stale when its byte size or its modification time, truncated to
whole seconds, differs from the destination copy. Content is never hashed.

Per-file failures are logged and counted but never abort a run. Everything
happens on the afero.Fs handed to New, so tests run on afero.NewMemMapFs().

🔍 Example:

	m, err := operation.New(operation.Options{
		Fs:          afero.NewOsFs(),
		Source:      "/work/Framework",
		Destination: "/game/Assets/Scripts/Framework",
		Policy:      filter.Default(),
		Delete:      true,
	})
	if err != nil {
		return err
	}
	res, err := m.Run(ctx)
*/
package operation

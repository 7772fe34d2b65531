/*
Package config resolves the settings of a mirror run.

	+----------+    +-------------+    +-----+    +-------+
	| Defaults | -> | Config file | -> | Env | -> | Flags |
	+----------+    +------+------+    +-----+    +-------+
	                       |
	          +------------+------------+
	          |            |            |
	     +----+---+   +----+---+   +----+---+
	     |  YAML  |   |  HCL   |   |  JSON  |
	     +--------+   +--------+   +--------+

🎯 Purpose:
- Holds the built-in defaults (source next to the tool, fixed destination)
- Parses an optional config file, chosen by extension through the parser registry
- Converts the result into a filter.Policy for the engine

Environment and flag overrides are bound by the command with viper; this
package only knows about defaults and files.

🔍 Example:

	cfg := config.Default(toolDir)
	file, err := config.Load(ctx, afero.NewOsFs(), ".fwsync.yaml")
	if err != nil {
		return err
	}
	cfg.Merge(file)
	if err := cfg.Resolve(); err != nil {
		return err
	}
*/
package config

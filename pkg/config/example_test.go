package config_test

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/walteh/fwsync/pkg/config"
)

func ExampleLoad_yaml() {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	configYAML := `
src: /work/Framework
dest: /game/Assets/Scripts/Framework
only_code: true
code_extensions: [.cs, .asmdef]
`
	if err := afero.WriteFile(fs, "/work/.fwsync.yaml", []byte(configYAML), 0o644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	file, err := config.Load(ctx, fs, "/work/.fwsync.yaml")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	cfg := config.Default("/work/tools")
	cfg.Merge(file)

	fmt.Println(cfg)
	fmt.Printf("only code: %t, extensions: %v\n", cfg.OnlyCode, cfg.CodeExtensions)
	fmt.Printf("excluded dirs: %d\n", len(cfg.ExcludeDirs))

	// Output:
	// /work/Framework -> /game/Assets/Scripts/Framework
	// only code: true, extensions: [.cs .asmdef]
	// excluded dirs: 10
}

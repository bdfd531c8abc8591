// shadergen generates C++ headers that embed GLSL shader sources as string constants.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/shadergen/internal/config"
	"github.com/Faultbox/shadergen/internal/generator"
	"github.com/Faultbox/shadergen/internal/glcheck"
	"github.com/Faultbox/shadergen/internal/logger"
	"github.com/Faultbox/shadergen/internal/watch"
	"github.com/Faultbox/shadergen/pkg/glsl"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	command := "generate"
	args := flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: logging: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "generate", "gen":
		err = cmdGenerate(cfg)
	case "list", "ls":
		err = cmdList(cfg, args)
	case "watch":
		err = cmdWatch(cfg)
	case "check":
		err = cmdCheck(cfg)
	case "init":
		err = cmdInit(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `shadergen - embed GLSL shaders into generated C++ headers

Usage:
  shadergen [flags] [command] [options]

Commands:
  generate                 Write a header into every manifest directory (default)
  list [-kind vert]        List the shader files found per directory
  watch                    Regenerate whenever a shader source changes
  check                    Compile every shader with the GL driver (needs -tags glcheck)
  init [-force] [path]     Write the effective config (default ./shadergen.yaml)

Flags:`)
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Examples:
  shadergen
  shadergen --root ../Source/SupportGLEW --dry-run generate
  shadergen list -kind frag
  shadergen --policy recursive watch`)
}

func newGenerator(cfg *config.Config, name string) (*generator.Generator, error) {
	opts, err := cfg.GeneratorOptions()
	if err != nil {
		return nil, err
	}
	return generator.New(opts, logger.Named(name)), nil
}

func cmdGenerate(cfg *config.Config) error {
	gen, err := newGenerator(cfg, "generate")
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := gen.Run()
	if err != nil {
		return err
	}

	verb := "Wrote"
	if res.DryRun {
		verb = "Rendered"
	}
	fmt.Printf("%s %d headers (%d shaders) in %s\n", verb, len(res.Dirs), res.Shaders(), time.Since(start).Round(time.Millisecond))
	return nil
}

func cmdList(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	kindFlag := fs.String("kind", "", "Only list one kind: vert, geom or frag")
	fs.Parse(args)

	only := -1
	if *kindFlag != "" {
		k, ok := glsl.KindFromExt("." + strings.TrimPrefix(*kindFlag, "."))
		if !ok {
			return fmt.Errorf("unknown shader kind %q", *kindFlag)
		}
		only = int(k)
	}

	gen, err := newGenerator(cfg, "list")
	if err != nil {
		return err
	}
	listings, err := gen.List()
	if err != nil {
		return err
	}

	count := 0
	for _, l := range listings {
		fmt.Println(l.Dir)
		for _, k := range glsl.Kinds {
			if only >= 0 && int(k) != only {
				continue
			}
			for _, f := range l.Files[k] {
				fmt.Printf("  %-10s %-24s %s\n", strings.ToLower(k.String()), generator.SymbolName(f), f)
				count++
			}
		}
	}
	fmt.Fprintf(os.Stderr, "\n(%d shaders in %d directories)\n", count, len(listings))
	return nil
}

func cmdWatch(cfg *config.Config) error {
	gen, err := newGenerator(cfg, "generate")
	if err != nil {
		return err
	}
	log := logger.Named("watch")

	rebuild := func() error {
		_, err := gen.Run()
		return err
	}
	// A broken shader should not keep the watcher from starting.
	if err := rebuild(); err != nil {
		log.Error("initial generation failed", zap.Error(err))
	}

	opts := gen.Options()
	w, err := watch.New(watch.Options{
		Root:       opts.Root,
		Manifest:   opts.Manifest,
		OutputName: opts.OutputName,
		Debounce:   time.Duration(cfg.Watch.Debounce),
	}, rebuild, log)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}

func cmdCheck(cfg *config.Config) error {
	gen, err := newGenerator(cfg, "check")
	if err != nil {
		return err
	}
	sources, err := gen.Collect()
	if err != nil {
		return err
	}

	shaders := make([]glcheck.Shader, len(sources))
	for i, s := range sources {
		shaders[i] = glcheck.Shader{Name: s.File, Kind: s.Kind, Source: s.Source}
	}

	res, err := glcheck.Run(glcheck.Options{
		Major:   cfg.Check.GLMajor,
		Minor:   cfg.Check.GLMinor,
		Profile: cfg.Check.Profile,
	}, shaders)
	if err != nil {
		return err
	}

	for _, f := range res.Failures {
		fmt.Println(f.Error())
	}
	fmt.Printf("Compiled %d shaders, %d failed, %d empty\n", res.Compiled, len(res.Failures), res.Skipped)
	if len(res.Failures) > 0 {
		return fmt.Errorf("%d shaders failed to compile", len(res.Failures))
	}
	return nil
}

func cmdInit(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	fs.Parse(args)

	path := "shadergen.yaml"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	if !*force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

package toolchain

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shaiso/Synthflow/internal/domain"
)

// fakeInstall создаёт дерево установки: <root>/bin/vivado_hls и маркеры.
func fakeInstall(t *testing.T, withInclude, withLibs bool) (root, bin string) {
	t.Helper()

	root = t.TempDir()
	bin = filepath.Join(root, "bin", "vivado_hls")
	mustWrite(t, bin)
	if withInclude {
		mustWrite(t, filepath.Join(root, "include", "hls_math.h"))
	}
	if withLibs {
		mustWrite(t, filepath.Join(root, "lnx64", "lib", "csim", "libhlsmc++-GCC46.so"))
	}
	return root, bin
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o755); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func locatorFor(bin string) *Locator {
	l := NewLocator(nil)
	l.LookPath = func(file string) (string, error) {
		if file == "vivado_hls" && bin != "" {
			return bin, nil
		}
		return "", exec.ErrNotFound
	}
	return l
}

func TestResolve_ExplicitPathsNoProbing(t *testing.T) {
	l := NewLocator(nil)
	l.LookPath = func(string) (string, error) {
		t.Fatal("LookPath must not be called when both paths are explicit")
		return "", nil
	}
	l.Stat = func(string) (os.FileInfo, error) {
		t.Fatal("Stat must not be called when both paths are explicit")
		return nil, nil
	}

	cfg, err := l.Resolve(Options{IncludePath: "/x/include", LibsPath: "/x/lnx64"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IncludePath != "/x/include" || cfg.LibsPath != "/x/lnx64" {
		t.Errorf("explicit paths should be returned verbatim, got %+v", cfg)
	}
}

func TestResolve_Defaults(t *testing.T) {
	l := NewLocator(nil)

	cfg, err := l.Resolve(Options{IncludePath: "/i", LibsPath: "/l"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Part != DefaultPart {
		t.Errorf("expected default part, got %s", cfg.Part)
	}
	if cfg.ClockPeriod != DefaultClockPeriod {
		t.Errorf("expected default clock period, got %v", cfg.ClockPeriod)
	}
	if cfg.IOType != domain.IOParallel {
		t.Errorf("expected io_parallel, got %s", cfg.IOType)
	}
	if cfg.Compiler != DefaultCompiler {
		t.Errorf("expected vivado_hls, got %s", cfg.Compiler)
	}
}

func TestResolve_InvalidOptions(t *testing.T) {
	l := NewLocator(nil)

	_, err := l.Resolve(Options{IOType: "io_serial", IncludePath: "/i", LibsPath: "/l"})
	if !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption for io type, got %v", err)
	}

	_, err = l.Resolve(Options{ClockPeriod: -1, IncludePath: "/i", LibsPath: "/l"})
	if !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption for clock period, got %v", err)
	}
}

func TestResolve_PartialPaths(t *testing.T) {
	l := locatorFor("")

	_, err := l.Resolve(Options{IncludePath: "/x/include"})
	if !errors.Is(err, ErrPartialPaths) {
		t.Errorf("expected ErrPartialPaths, got %v", err)
	}

	_, err = l.Resolve(Options{LibsPath: "/x/lnx64"})
	if !errors.Is(err, ErrPartialPaths) {
		t.Errorf("expected ErrPartialPaths, got %v", err)
	}
}

func TestResolve_ExecutableNotFound(t *testing.T) {
	_, err := locatorFor("").Resolve(Options{})
	if !errors.Is(err, ErrToolchainNotFound) {
		t.Fatalf("expected ErrToolchainNotFound, got %v", err)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected underlying exec.ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "vivado_hls") {
		t.Errorf("error should name the executable: %v", err)
	}
}

func TestResolve_DerivedAndValidated(t *testing.T) {
	root, bin := fakeInstall(t, true, true)

	cfg, err := locatorFor(bin).Resolve(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantInclude := filepath.ToSlash(filepath.Join(root, "include"))
	wantLibs := filepath.ToSlash(filepath.Join(root, "lnx64"))
	if cfg.IncludePath != wantInclude {
		t.Errorf("expected include %s, got %s", wantInclude, cfg.IncludePath)
	}
	if cfg.LibsPath != wantLibs {
		t.Errorf("expected libs %s, got %s", wantLibs, cfg.LibsPath)
	}
}

func TestResolve_MissingIncludeMarker(t *testing.T) {
	root, bin := fakeInstall(t, false, true)

	_, err := locatorFor(bin).Resolve(Options{})
	if !errors.Is(err, ErrToolchainValidation) {
		t.Fatalf("expected ErrToolchainValidation, got %v", err)
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Kind != "include" {
		t.Errorf("expected include kind, got %s", ve.Kind)
	}
	wantDir := filepath.ToSlash(filepath.Join(root, "include"))
	if ve.Dir != wantDir {
		t.Errorf("expected dir %s, got %s", wantDir, ve.Dir)
	}
	if !strings.Contains(err.Error(), wantDir) || !strings.Contains(err.Error(), "hls_math.h") {
		t.Errorf("message should name directory and artifact: %v", err)
	}
}

func TestResolve_MissingLibsMarker(t *testing.T) {
	_, bin := fakeInstall(t, true, false)

	_, err := locatorFor(bin).Resolve(Options{})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Kind != "libs" {
		t.Errorf("expected libs kind, got %s", ve.Kind)
	}
	if !strings.Contains(err.Error(), "libhlsmc++-GCC46.so") {
		t.Errorf("message should name the library: %v", err)
	}
}

func TestDerivePaths(t *testing.T) {
	inc, libs := DerivePaths("/opt/Xilinx/Vivado/2020.1/bin/vivado_hls", "vivado_hls")
	if inc != "/opt/Xilinx/Vivado/2020.1/include" {
		t.Errorf("unexpected include path %s", inc)
	}
	if libs != "/opt/Xilinx/Vivado/2020.1/lnx64" {
		t.Errorf("unexpected libs path %s", libs)
	}
}

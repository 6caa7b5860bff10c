package initializer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/udzura/purua-old/object"
	"github.com/udzura/purua-old/text"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("a missing file must yield defaults: %s", err.Message)
	}
	if config.RegistrySize != defaultRegistrySize {
		t.Errorf("got registry size %d", config.RegistrySize)
	}
	if config.Prompt != text.PROMPT {
		t.Errorf("got prompt %q", config.Prompt)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "purua.yml")
	contents := "registry_size: 64\nprompt: \">> \"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	config, cerr := LoadConfig(path)
	if cerr != nil {
		t.Fatalf("load: %s", cerr.Message)
	}
	if config.RegistrySize != 64 {
		t.Errorf("got registry size %d", config.RegistrySize)
	}
	if config.Prompt != ">> " {
		t.Errorf("got prompt %q", config.Prompt)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "purua.yml")
	if err := os.WriteFile(path, []byte("registry_size: 32\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	config, cerr := LoadConfig(path)
	if cerr != nil {
		t.Fatalf("load: %s", cerr.Message)
	}
	if config.RegistrySize != 32 || config.Prompt != text.PROMPT {
		t.Errorf("got %+v", config)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "purua.yml")
	if err := os.WriteFile(path, []byte("registry_size: [oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, cerr := LoadConfig(path)
	if cerr == nil || cerr.ErrorId != "init/config/parse" {
		t.Errorf("expected parse error, got %v", cerr)
	}
}

func TestBuiltinsInstalled(t *testing.T) {
	s := NewState(DefaultConfig(), os.Stderr)
	for _, name := range []string{"print", "type", "tostring", "len", "assert", "ipairs", "inext"} {
		value, ok := s.GetGlobal(name)
		if !ok {
			t.Errorf("builtin %q not installed", name)
			continue
		}
		if _, ok := value.(*object.Function); !ok {
			t.Errorf("builtin %q is not a function", name)
		}
	}
}

package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/zerr"
)

// defaultGatefile is the starter configuration written by `gate init`.
// The hook set mirrors the conventional Python pre-commit toolchain:
// formatter, import sorter, style linter, and type checker.
const defaultGatefile = `version: "1"

on:
  push:
    branches: [main]
  pull_request: {}

jobs:
  test:
    runtime: "3.8"
    steps:
      - name: install-deps
        cmd: [pip, install, -r, requirements.txt]
        cache:
          keyFiles: [requirements.txt]
      - name: run-tests
        cmd: [pytest]
  lint:
    runtime: "3.8"
    steps:
      - name: install-linters
        cmd: [pip, install, -r, dev-requirements.txt]
        cache:
          keyFiles: [dev-requirements.txt, setup.cfg]
      - name: run-linters
        cmd: [flake8, --max-line-length=88]

hooks:
  - id: black
    cmd: [black]
    files: ["*.py"]
  - id: isort
    cmd: [isort, --profile=black]
    files: ["*.py"]
  - id: flake8
    cmd: [flake8, --max-line-length=88]
    files: ["*.py"]
  - id: mypy
    cmd: [mypy, --ignore-missing-imports]
    files: ["*.py"]
`

// WriteDefault writes the starter gate.yaml into dir. It refuses to
// overwrite an existing configuration.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, domain.WorkflowFileName)
	if _, err := os.Stat(path); err == nil {
		return "", zerr.With(zerr.New("configuration already exists"), "path", path)
	}

	if err := os.WriteFile(path, []byte(defaultGatefile), domain.FilePerm); err != nil {
		return "", zerr.Wrap(err, "failed to write configuration")
	}

	return path, nil
}

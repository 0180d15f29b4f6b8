/*
Copyright © 2025 The OpenEBS Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openebs/mayastor-upgrade/pkg/k8s/job"
	"github.com/openebs/mayastor-upgrade/pkg/upgrade"
)

func writeChartDir(t *testing.T, chartVersion, imageTag string, withCapacity bool) string {
	t.Helper()
	dir := t.TempDir()

	manifest := "name: mayastor\nversion: " + chartVersion + "\n"
	if err := os.WriteFile(filepath.Join(dir, "Chart.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	core := "      {}\n"
	if withCapacity {
		core = `      capacity:
        thin:
          poolCommitment: "250%"
          volumeCommitment: "40%"
          volumeCommitmentInitial: "40%"
`
	}
	values := `mayastor:
  image:
    tag: ` + imageTag + `
  ioEngine:
    logLevel: info
  agents:
    core:
` + core
	if err := os.WriteFile(filepath.Join(dir, "values.yaml"), []byte(values), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestPlanCommand(t *testing.T) {
	source := writeChartDir(t, "2.6.0", "v2.6.0", false)
	target := writeChartDir(t, "2.7.1", "v2.7.1", true)
	planPath := filepath.Join(t.TempDir(), "plan.json")

	err := Run(context.Background(), []string{
		"upgrade-job", "plan",
		"--source-chart", source,
		"--target-chart", target,
		"--format", "json",
		"--output", planPath,
	})
	if err != nil {
		t.Fatalf("plan command failed: %v", err)
	}

	data, err := os.ReadFile(planPath)
	if err != nil {
		t.Fatalf("failed to read plan file: %v", err)
	}

	var plan upgrade.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		t.Fatalf("failed to unmarshal plan: %v", err)
	}
	if plan.FromVersion != "2.6.0" || plan.ToVersion != "2.7.1" {
		t.Errorf("unexpected plan versions: %+v", plan)
	}
	if plan.ThinProvisioning == nil {
		t.Error("expected thin-provisioning settings in plan")
	}
}

func TestPlanCommand_UnknownFormat(t *testing.T) {
	source := writeChartDir(t, "2.6.0", "v2.6.0", false)
	target := writeChartDir(t, "2.7.1", "v2.7.1", false)

	err := Run(context.Background(), []string{
		"upgrade-job", "plan",
		"--source-chart", source,
		"--target-chart", target,
		"--format", "xml",
	})
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Fatalf("expected unknown-format error, got: %v", err)
	}
}

func TestPlanCommand_ConflictingTargetFlags(t *testing.T) {
	source := writeChartDir(t, "2.6.0", "v2.6.0", false)
	target := writeChartDir(t, "2.7.1", "v2.7.1", false)

	err := Run(context.Background(), []string{
		"upgrade-job", "plan",
		"--source-chart", source,
		"--target-chart", target,
		"--target-ref", "oci://registry.example.com/openebs/mayastor:2.7.1",
	})
	if err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Fatalf("expected mutually-exclusive error, got: %v", err)
	}
}

func TestLoadChartSettings(t *testing.T) {
	t.Run("with capacity", func(t *testing.T) {
		settings, err := loadChartSettings(writeChartDir(t, "2.7.1", "v2.7.1", true))
		if err != nil {
			t.Fatalf("loadChartSettings failed: %v", err)
		}
		if !settings.ThinProvisioningEnabled {
			t.Error("expected thin provisioning enabled")
		}
		if settings.ThinPoolCommitment != "250%" {
			t.Errorf("unexpected pool commitment %q", settings.ThinPoolCommitment)
		}
		if settings.ChartVersion != "2.7.1" || settings.ImageTag != "v2.7.1" {
			t.Errorf("unexpected settings: %+v", settings)
		}
	})

	t.Run("without capacity", func(t *testing.T) {
		settings, err := loadChartSettings(writeChartDir(t, "2.7.1", "v2.7.1", false))
		if err != nil {
			t.Fatalf("loadChartSettings failed: %v", err)
		}
		if settings.ThinProvisioningEnabled {
			t.Error("expected thin provisioning disabled")
		}
		if settings.ThinPoolCommitment != "" {
			t.Errorf("expected empty commitment, got %q", settings.ThinPoolCommitment)
		}
	})
}

func TestValuesCommand(t *testing.T) {
	chartDir := writeChartDir(t, "2.7.1", "v2.7.1", true)
	outPath := filepath.Join(t.TempDir(), "settings.json")

	err := Run(context.Background(), []string{
		"upgrade-job", "values",
		"--chart", chartDir,
		"--format", "json",
		"--output", outPath,
	})
	if err != nil {
		t.Fatalf("values command failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var settings chartSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("failed to unmarshal settings: %v", err)
	}
	if settings.ChartName != "mayastor" || settings.IoEngineLogLevel != "info" {
		t.Errorf("unexpected settings: %+v", settings)
	}
}

func TestReadPlanFile(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), "plan.yaml")
	content := `id: plan-1
chartName: mayastor
fromVersion: 2.6.0
toVersion: 2.7.1
fromImageTag: v2.6.0
toImageTag: v2.7.1
ioEngineLogLevel: info
`
	if err := os.WriteFile(planPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	plan, err := readPlanFile(planPath)
	if err != nil {
		t.Fatalf("readPlanFile failed: %v", err)
	}
	if plan.ID != "plan-1" || plan.ToImageTag != "v2.7.1" {
		t.Errorf("unexpected plan: %+v", plan)
	}
}

func TestReadPlanFile_Incomplete(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(planPath, []byte("id: plan-1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := readPlanFile(planPath); err == nil || !strings.Contains(err.Error(), "incomplete") {
		t.Fatalf("expected incomplete-plan error, got: %v", err)
	}
}

func TestReadPlanFile_InvalidVersion(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), "plan.yaml")
	content := `id: plan-1
fromVersion: 2.6.0
toVersion: garbage
toImageTag: v2.7.1
`
	if err := os.WriteFile(planPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := readPlanFile(planPath)
	if err == nil || !strings.Contains(err.Error(), "not a valid semantic version") {
		t.Fatalf("expected invalid-version error, got: %v", err)
	}
}

func TestParsePlanJSON(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		plan, err := parsePlanJSON(`{"id":"plan-1","fromVersion":"2.6.0","toVersion":"2.7.1","toImageTag":"v2.7.1"}`)
		if err != nil {
			t.Fatalf("parsePlanJSON failed: %v", err)
		}
		if plan.ToVersion != "2.7.1" || plan.ToImageTag != "v2.7.1" {
			t.Errorf("unexpected plan: %+v", plan)
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := parsePlanJSON("{not json"); err == nil ||
			!strings.Contains(err.Error(), "failed to parse inline plan") {
			t.Fatalf("expected parse error, got: %v", err)
		}
	})

	t.Run("incomplete", func(t *testing.T) {
		if _, err := parsePlanJSON(`{"id":"plan-1"}`); err == nil ||
			!strings.Contains(err.Error(), "incomplete") {
			t.Fatalf("expected incomplete-plan error, got: %v", err)
		}
	})

	t.Run("invalid version", func(t *testing.T) {
		raw := `{"id":"plan-1","toVersion":"garbage","toImageTag":"v2.7.1"}`
		if _, err := parsePlanJSON(raw); err == nil ||
			!strings.Contains(err.Error(), "not a valid semantic version") {
			t.Fatalf("expected invalid-version error, got: %v", err)
		}
	})
}

// The deploy command hands the Job container an argument vector built by
// job.Config.ContainerArgs. Replaying that vector through the CLI must get
// past flag parsing and plan resolution; the first failure an offline run can
// hit is building the kube client.
func TestApplyAcceptsDeployerJobArgs(t *testing.T) {
	source := writeChartDir(t, "2.6.0", "v2.6.0", false)
	target := writeChartDir(t, "2.7.1", "v2.7.1", true)

	plan, err := upgrade.NewPlanner().Build(context.Background(), source, target)
	if err != nil {
		t.Fatalf("failed to build plan: %v", err)
	}
	planJSON, err := json.Marshal(plan)
	if err != nil {
		t.Fatal(err)
	}

	config := job.Config{
		Namespace: "mayastor",
		Image:     "openebs/mayastor-upgrade:v2.7.1",
		PlanJSON:  string(planJSON),
	}

	argv := append([]string{"upgrade-job"}, config.ContainerArgs()...)
	argv = append(argv, "--kubeconfig", filepath.Join(t.TempDir(), "no-such-kubeconfig"))

	err = Run(context.Background(), argv)
	if err == nil {
		t.Fatal("expected an error without a reachable cluster")
	}
	if strings.Contains(err.Error(), "flag provided but not defined") {
		t.Fatalf("apply rejected the deployer-built args: %v", err)
	}
	if !strings.Contains(err.Error(), "failed to build kube config") {
		t.Fatalf("expected failure at kube client construction, got: %v", err)
	}
}

// Package cli implements the command-line interface of the upgrade job.
//
// # Commands
//
// plan - Build an upgrade plan from two chart directories:
//
//	upgrade-job plan --source-chart ./mayastor-2.6.0 --target-chart ./mayastor-2.7.1
//	upgrade-job plan -s ./old -t ./new --format table
//	upgrade-job plan -s ./old --target-ref oci://registry.example.com/openebs/mayastor:2.7.1
//
// Loads Chart.yaml and values.yaml from both directories, validates the
// upgrade path between their versions, and prints the resulting plan in
// YAML, JSON, or table form. The target chart can instead be pulled from an
// OCI registry with --target-ref.
//
// apply - Execute an upgrade plan against the cluster:
//
//	upgrade-job apply --plan plan.yaml --namespace mayastor
//	upgrade-job apply -s ./old -t ./new -n mayastor
//
// Runs inside the cluster as a Job. Patches the io-engine DaemonSet to the
// plan's image tag and log level and waits for the rollout, while serving
// probes, metrics and upgrade status over HTTP.
//
// deploy - Launch the upgrade as an in-cluster Job:
//
//	upgrade-job deploy --namespace mayastor --image openebs/mayastor-upgrade:v2.7.1 \
//	  --plan plan.yaml
//	upgrade-job deploy -n mayastor --image openebs/mayastor-upgrade:v2.7.1 \
//	  -s ./mayastor-2.6.0 -t ./mayastor-2.7.1
//
// Resolves the plan locally, creates the Job with its RBAC from outside the
// cluster, hands the plan to the Job container as inline JSON, and waits for
// it to finish.
//
// values - Print the deployment-relevant settings of one chart:
//
//	upgrade-job values --chart ./mayastor-2.7.1
//	upgrade-job values -c ./mayastor-2.7.1 --format json
//
// # Global Flags
//
//	--debug      Enable debug logging
//	--log-json   Output logs in JSON format
//
// # Environment Variables
//
//	LOG_LEVEL    Set logging verbosity (debug, info, warn, error)
//	KUBECONFIG   Path to kubeconfig file
//	PORT         Status server port (apply)
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/openebs/mayastor-upgrade/pkg/cli.version=2.7.1'"
package cli

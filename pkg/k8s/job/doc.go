/*
Package job deploys the in-cluster upgrade Job and its RBAC.

The upgrade itself runs inside the cluster: a Kubernetes Job patches the
io-engine DaemonSet and watches the rollout. This package handles the Job
lifecycle from outside: RBAC setup, Job creation, completion tracking and
cleanup. The Job container receives an "apply" invocation carrying the
serialized plan, built by Config.ContainerArgs.

RBAC resources (ServiceAccount, ClusterRole, ClusterRoleBinding) are created
idempotently and reused when they already exist. The Job is deleted and
recreated on each run so a failed earlier attempt never blocks a retry.

	clientset, _, err := client.Get()
	if err != nil {
	    return err
	}
	deployer := job.NewDeployer(clientset, job.Config{
	    Namespace: "mayastor",
	    Image:     "openebs/mayastor-upgrade:v2.7.1",
	    PlanJSON:  planJSON,
	})
	if err := deployer.Deploy(ctx); err != nil {
	    return err
	}
	if err := deployer.WaitForCompletion(ctx, 30*time.Minute); err != nil {
	    return err
	}

The package is written against kubernetes.Interface and is exercised in tests
with the client-go fake clientset.
*/
package job

package controller

import "fmt"

// Classify derives the roster of live sidecars from a pod snapshot.
//
// The main container is the one named after the jobLabelKey label. Until it has
// terminated, or while the kubelet has not reported any container status yet,
// the roster is empty. Sidecars that already terminated are left out.
func Classify(pod Pod, jobLabelKey string) (Roster, error) {
	jobName := pod.Labels[jobLabelKey]
	if jobName == "" {
		return Roster{}, fmt.Errorf("%w %q", ErrMissingLabel, jobLabelKey)
	}

	roster := Roster{JobName: jobName}

	if len(pod.Containers) == 0 {
		return roster, nil
	}

	mainFound := false
	mainTerminated := false
	sidecars := make([]string, 0, len(pod.Containers))

	for _, c := range pod.Containers {
		if c.Name == jobName {
			mainFound = true
			mainTerminated = c.Terminated

			continue
		}

		if !c.Terminated {
			sidecars = append(sidecars, c.Name)
		}
	}

	if !mainFound {
		return Roster{}, fmt.Errorf("%w %q", ErrMainContainerNotFound, jobName)
	}

	if !mainTerminated {
		return roster, nil
	}

	roster.Sidecars = sidecars

	return roster, nil
}

package xnat

import "net/url"

// restPrefix is the legacy REST root that all experiment hierarchy
// endpoints live under.
const restPrefix = "/REST"

// DefaultResourceLabel is the resource a file is uploaded into when the
// caller does not name one.
const DefaultResourceLabel = "OTHER"

// FileRef locates a file within the XNAT hierarchy: project, subject,
// experiment (session), optionally a container within the experiment, then
// resource and file name. ContainerType and Container travel as a pair;
// when ContainerType is empty the resource hangs directly off the
// experiment and the container segments are omitted from every URI.
type FileRef struct {
	Project       string
	Subject       string
	Session       string
	ContainerType string
	Container     string
	Resource      string
	File          string
}

// ContainersURI returns the listing endpoint for the container type:
// .../experiments/{session}/{containerType}.
func (r FileRef) ContainersURI() string {
	return r.experimentURI() + "/" + pathSeg(r.ContainerType)
}

// ContainerURI returns the endpoint of the container itself.
func (r FileRef) ContainerURI() string {
	return r.ContainersURI() + "/" + pathSeg(r.Container)
}

// ResourcesURI returns the resource listing endpoint under the container.
func (r FileRef) ResourcesURI() string {
	return r.ContainerURI() + "/resources"
}

// FilesURI returns the file listing endpoint under the resource.
func (r FileRef) FilesURI() string {
	return r.resourceURI() + "/files"
}

// FileURI returns the endpoint of the file itself. This is the one URI
// that exists in both shapes: with the container segment pair when
// ContainerType is set, without it otherwise.
func (r FileRef) FileURI() string {
	return r.FilesURI() + "/" + pathSeg(r.File)
}

// experimentURI returns the path up to and including the experiment.
func (r FileRef) experimentURI() string {
	return restPrefix +
		"/projects/" + pathSeg(r.Project) +
		"/subjects/" + pathSeg(r.Subject) +
		"/experiments/" + pathSeg(r.Session)
}

// resourceURI returns the endpoint of the resource, container-qualified
// only when a container type is present.
func (r FileRef) resourceURI() string {
	base := r.experimentURI()
	if r.ContainerType != "" {
		base = r.ContainerURI()
	}

	return base + "/resources/" + pathSeg(r.Resource)
}

// pathSeg escapes one path segment so identifiers containing spaces or
// reserved characters survive interpolation into request URIs.
func pathSeg(s string) string {
	return url.PathEscape(s)
}

package connector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/xnat-tools/xnatc/internal/access"
	"github.com/xnat-tools/xnatc/internal/xnat"
)

// Send uploads localPath to the container named by the descriptor. The
// sequence is strictly ordered: list the existing containers, and if the
// target already exists either fail with ConflictError (upsert off) or
// tear the old container down file-first (upsert on); then create the
// container and upload the bytes. Partial remote mutations are not rolled
// back on failure; re-running the operation converges. The session is
// invalidated before returning, strictly on success and best-effort on
// error paths.
func (c *Connector) Send(ctx context.Context, acc *access.Access, localPath string, progress ProgressFunc) (err error) {
	if verr := access.Validate(acc, access.Send); verr != nil {
		return verr
	}

	resource := acc.Resource
	if resource == "" {
		resource = xnat.DefaultResourceLabel
	}

	ref := fileRef(acc, resource)
	sess := xnat.NewSession()

	var closed bool

	defer func() {
		if err != nil && !closed {
			c.closeQuietly(ctx, sess)
		}
	}()

	containers, err := c.client.ListContainers(ctx, sess, ref)
	if err != nil {
		return err
	}

	exists := slices.ContainsFunc(containers, func(ct xnat.Container) bool {
		return ct.ID == ref.Container
	})

	if exists {
		if !acc.UpsertEnabled() {
			return &ConflictError{Container: ref.Container}
		}

		c.logger.Debug("container exists, replacing",
			slog.String("container_type", ref.ContainerType),
			slog.String("container", ref.Container),
		)

		if err := c.replaceContainer(ctx, sess, ref); err != nil {
			return err
		}
	}

	if err := c.client.CreateContainer(ctx, sess, ref, acc.XSIType); err != nil {
		return err
	}

	size, err := c.uploadLocal(ctx, sess, ref, localPath, progress)
	if err != nil {
		return err
	}

	c.logger.Info("file sent",
		slog.String("file", ref.File),
		slog.String("container", ref.Container),
		slog.Int64("bytes", size),
	)

	closed = true

	return c.client.CloseSession(ctx, sess)
}

// replaceContainer removes the existing container so it can be recreated.
// The stored file is deleted first when present; deleting the container
// then cascades over whatever else it holds server-side.
func (c *Connector) replaceContainer(ctx context.Context, sess *xnat.Session, ref xnat.FileRef) error {
	resources, err := c.client.ListResources(ctx, sess, ref)
	if err != nil {
		return err
	}

	resourceExists := slices.ContainsFunc(resources, func(r xnat.Resource) bool {
		return r.Label == ref.Resource
	})

	if resourceExists {
		files, err := c.client.ListFiles(ctx, sess, ref)
		if err != nil {
			return err
		}

		fileExists := slices.ContainsFunc(files, func(f xnat.File) bool {
			return f.Name == ref.File
		})

		if fileExists {
			if err := c.client.DeleteFile(ctx, sess, ref); err != nil {
				return err
			}
		}
	}

	return c.client.DeleteContainer(ctx, sess, ref)
}

// uploadLocal streams the local file to the remote file path and returns
// its size.
func (c *Connector) uploadLocal(
	ctx context.Context, sess *xnat.Session, ref xnat.FileRef, localPath string, progress ProgressFunc,
) (int64, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("opening local file %s: %w", localPath, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat local file %s: %w", localPath, err)
	}

	var r io.Reader = f
	if progress != nil {
		r = &countingReader{r: f, fn: progress}
	}

	if err := c.client.UploadFile(ctx, sess, ref, r, fi.Size()); err != nil {
		return 0, err
	}

	return fi.Size(), nil
}

package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"upitrack/internal/jobs"
	"upitrack/internal/store"
)

// createUploadHandler accepts a multipart screenshot, stores it on disk, and
// enqueues a parsing job. The response is 202 with the job id; results land
// asynchronously on the upload row.
func (s *Server) createUploadHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		s.log.Error().Err(err).Msg("Failed to create upload dir")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}
	storeName := uuid.New().String() + filepath.Ext(file.Filename)
	storePath := filepath.Join(s.uploadDir, storeName)
	if err := c.SaveUploadedFile(file, storePath); err != nil {
		s.log.Error().Err(err).Msg("Failed to save uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	upload := store.Upload{
		UserID:      userID,
		FileName:    filepath.Base(file.Filename),
		StorePath:   storePath,
		ContentType: file.Header.Get("Content-Type"),
	}
	if err := s.uploads.Create(c.Request.Context(), &upload); err != nil {
		s.log.Error().Err(err).Msg("Failed to create upload row")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record upload"})
		return
	}

	job := &jobs.ParseUploadJob{
		UploadID:  upload.ID,
		ImagePath: storePath,
		UserID:    userID,
	}
	if err := s.publisher.PublishParseUpload(c.Request.Context(), job); err != nil {
		s.log.Error().Err(err).Uint("upload_id", upload.ID).Msg("Failed to enqueue parsing job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue parsing job"})
		return
	}

	s.log.Info().
		Str("job_id", job.JobID).
		Uint("upload_id", upload.ID).
		Msg("Parsing job enqueued")

	c.JSON(http.StatusAccepted, gin.H{
		"upload_id": upload.ID,
		"job_id":    job.JobID,
		"status":    string(job.Status),
	})
}

func (s *Server) getUploadHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	upload, err := s.uploads.Get(c.Request.Context(), userID, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
		return
	}
	c.JSON(http.StatusOK, upload)
}

func (s *Server) getJobHandler(c *gin.Context) {
	job, err := s.jobStore.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) listJobsHandler(c *gin.Context) {
	filter := jobs.JobFilter{
		Status: jobs.JobStatus(c.Query("status")),
	}
	if v := c.Query("upload_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid upload_id %q", v)})
			return
		}
		filter.UploadID = uint(id)
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	list, err := s.jobStore.ListJobs(c.Request.Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list jobs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list, "count": len(list)})
}

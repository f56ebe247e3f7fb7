package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/activity"
	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/storage"
	"github.com/craftforge/craftforge/internal/utils"
)

// maxUploadSize caps a single file at 25 MB.
const maxUploadSize = 25 << 20

func handleListFiles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		query := db.Where("tenant_id = ?", actor.TenantID)
		if raw := c.Query("project_id"); raw != "" {
			projectID, err := uuid.Parse(raw)
			if err != nil {
				utils.BadRequestResponse(c, "Invalid project_id")
				return
			}
			project, err := findProject(db, actor.TenantID, projectID)
			if err != nil {
				utils.NotFoundResponse(c, "Project not found")
				return
			}
			if !requireProjectAccess(c, db, actor, project, nil) {
				return
			}
			query = query.Where("project_id = ?", projectID)
		}
		if raw := c.Query("task_id"); raw != "" {
			query = query.Where("task_id = ?", raw)
		}

		var files []models.File
		if err := query.Order("created_at DESC").Find(&files).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to fetch files")
			return
		}
		utils.OKResponse(c, "Files retrieved successfully", files)
	}
}

func handleUploadFile(db *gorm.DB, recorder *activity.Recorder, blobs storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermFilesUpload) {
			return
		}

		header, err := c.FormFile("file")
		if err != nil {
			utils.BadRequestResponse(c, "A file is required")
			return
		}
		if header.Size > maxUploadSize {
			utils.BadRequestResponse(c, "File exceeds the maximum upload size")
			return
		}

		var projectID, areaID, taskID *uuid.UUID
		var project *models.Project
		if raw := c.PostForm("project_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				utils.BadRequestResponse(c, "Invalid project_id")
				return
			}
			project, err = findProject(db, actor.TenantID, id)
			if err != nil {
				utils.NotFoundResponse(c, "Project not found")
				return
			}
			if !requireProjectAccess(c, db, actor, project, nil) {
				return
			}
			if err := authz.CheckLock(project, actor); err != nil {
				respondLockError(c, err)
				return
			}
			projectID = &id
		}
		if raw := c.PostForm("area_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				utils.BadRequestResponse(c, "Invalid area_id")
				return
			}
			areaID = &id
		}
		if raw := c.PostForm("task_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				utils.BadRequestResponse(c, "Invalid task_id")
				return
			}
			taskID = &id
		}

		src, err := header.Open()
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to read uploaded file")
			return
		}
		defer src.Close()

		storedName := uuid.New().String() + filepath.Ext(header.Filename)
		if err := blobs.Save(actor.TenantID.String(), storedName, src); err != nil {
			utils.InternalServerErrorResponse(c, "Failed to store file")
			return
		}

		file := models.File{
			ID:           uuid.New(),
			TenantID:     actor.TenantID,
			ProjectID:    projectID,
			AreaID:       areaID,
			TaskID:       taskID,
			OriginalName: header.Filename,
			StoredName:   storedName,
			ContentType:  header.Header.Get("Content-Type"),
			Size:         header.Size,
			UploadedBy:   actor.ID,
			CreatedAt:    time.Now().UTC(),
		}
		if err := db.Create(&file).Error; err != nil {
			_ = blobs.Delete(actor.TenantID.String(), storedName)
			utils.InternalServerErrorResponse(c, "Failed to save file record")
			return
		}

		if project != nil {
			recorder.Record(activity.Entry{
				TenantID:    actor.TenantID,
				ProjectID:   project.ID,
				AreaID:      areaID,
				Action:      models.ActionFileUploaded,
				Description: fmt.Sprintf("'%s' dosyası yüklendi", file.OriginalName),
				ActorID:     actor.ID,
				ActorName:   actor.FullName,
				Metadata:    models.Metadata{"file_id": file.ID.String(), "size": file.Size},
			})
		}

		utils.CreatedResponse(c, "File uploaded successfully", file)
	}
}

func handleDownloadFile(db *gorm.DB, blobs storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		fileID, ok := parseUUIDParam(c, "fileId")
		if !ok {
			return
		}

		var file models.File
		if err := db.Where("id = ? AND tenant_id = ?", fileID, actor.TenantID).First(&file).Error; err != nil {
			utils.NotFoundResponse(c, "File not found")
			return
		}
		if file.ProjectID != nil {
			project, err := findProject(db, actor.TenantID, *file.ProjectID)
			if err != nil {
				utils.NotFoundResponse(c, "Project not found")
				return
			}
			if !requireProjectAccess(c, db, actor, project, file.AreaID) {
				return
			}
		}

		blob, err := blobs.Open(file.TenantID.String(), file.StoredName)
		if err != nil {
			utils.NotFoundResponse(c, "File content not found")
			return
		}
		defer blob.Close()

		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.OriginalName))
		c.DataFromReader(http.StatusOK, file.Size, contentType, blob, nil)
	}
}

func handleDeleteFile(db *gorm.DB, recorder *activity.Recorder, blobs storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}
		if !requirePermission(c, actor, authz.PermFilesDelete) {
			return
		}
		fileID, ok := parseUUIDParam(c, "fileId")
		if !ok {
			return
		}

		var file models.File
		if err := db.Where("id = ? AND tenant_id = ?", fileID, actor.TenantID).First(&file).Error; err != nil {
			utils.NotFoundResponse(c, "File not found")
			return
		}

		var project *models.Project
		if file.ProjectID != nil {
			var err error
			project, err = findProject(db, actor.TenantID, *file.ProjectID)
			if err == nil {
				if !requireProjectAccess(c, db, actor, project, file.AreaID) {
					return
				}
				if err := authz.CheckLock(project, actor); err != nil {
					respondLockError(c, err)
					return
				}
			}
		}

		if err := db.Delete(&file).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to delete file record")
			return
		}
		_ = blobs.Delete(file.TenantID.String(), file.StoredName)

		if project != nil {
			recorder.Record(activity.Entry{
				TenantID:    actor.TenantID,
				ProjectID:   project.ID,
				AreaID:      file.AreaID,
				Action:      models.ActionFileDeleted,
				Description: fmt.Sprintf("'%s' dosyası silindi", file.OriginalName),
				ActorID:     actor.ID,
				ActorName:   actor.FullName,
				Metadata:    models.Metadata{"file_id": file.ID.String()},
			})
		}

		utils.OKResponse(c, "File deleted successfully", nil)
	}
}

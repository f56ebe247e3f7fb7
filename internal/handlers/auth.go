package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/craftforge/craftforge/internal/authz"
	"github.com/craftforge/craftforge/internal/middleware"
	"github.com/craftforge/craftforge/internal/models"
	"github.com/craftforge/craftforge/internal/utils"
)

// RegisterRequest creates a tenant and its first (admin) user.
type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	FullName   string `json:"full_name" binding:"required"`
	TenantName string `json:"tenant_name" binding:"required"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// permissionSeed is one catalog row seeded for every new tenant.
type permissionSeed struct {
	Key         string
	Name        string
	Description string
}

var defaultPermissions = []permissionSeed{
	{authz.PermProjectsView, "Projeleri Görüntüle", "Projeleri görüntüleme yetkisi"},
	{authz.PermProjectsViewAll, "Tüm Projeleri Görüntüle", "Atanmamış projeler dahil tüm projeleri görüntüleme yetkisi"},
	{authz.PermProjectsCreate, "Proje Oluştur", "Yeni proje oluşturma yetkisi"},
	{authz.PermProjectsEdit, "Proje Düzenle", "Proje düzenleme yetkisi"},
	{authz.PermProjectsDelete, "Proje Sil", "Proje silme yetkisi"},
	{authz.PermTasksView, "Görevleri Görüntüle", "Görevleri görüntüleme yetkisi"},
	{authz.PermTasksEdit, "Görev Düzenle", "Görev durumu güncelleme yetkisi"},
	{authz.PermPaymentsView, "Ödemeleri Görüntüle", "Ödeme kayıtlarını görüntüleme yetkisi"},
	{authz.PermPaymentsManage, "Ödemeleri Yönet", "Ödeme ekleme ve silme yetkisi"},
	{authz.PermSetupGroups, "Grupları Yönet", "Grup oluşturma ve düzenleme yetkisi"},
	{authz.PermSetupSubtasks, "Alt Görevleri Yönet", "Alt görev yönetimi yetkisi"},
	{authz.PermSetupWorkItems, "İş Kalemlerini Yönet", "İş kalemi yönetimi yetkisi"},
	{authz.PermSetupRoles, "Rolleri Yönet", "Rol ve yetki yönetimi yetkisi"},
	{authz.PermUsersView, "Kullanıcıları Görüntüle", "Kullanıcı listesi görüntüleme"},
	{authz.PermUsersManage, "Kullanıcıları Yönet", "Kullanıcı ekleme/düzenleme yetkisi"},
	{authz.PermSettingsManage, "Ayarları Yönet", "Firma ayarları düzenleme yetkisi"},
	{authz.PermFilesUpload, "Dosya Yükle", "Dosya yükleme yetkisi"},
	{authz.PermFilesDelete, "Dosya Sil", "Dosya silme yetkisi"},
}

// defaultGroups seeds the production pipeline a carpentry shop starts with.
var defaultGroups = []struct {
	Name        string
	Description string
	Subtasks    []string
}{
	{"Planlama", "Planlama aşaması", []string{"Ölçü Alma", "Tasarım", "Malzeme Seçimi"}},
	{"Üretim", "Üretim aşaması", []string{"Kesim", "İşleme", "Montaj Öncesi Hazırlık"}},
	{"Montaj", "Montaj aşaması", []string{"Taşıma", "Yerleştirme", "Sabitleme"}},
	{"Kontrol", "Kalite kontrol aşaması", []string{"Görsel Kontrol", "İşlevsellik Testi", "Müşteri Onayı"}},
}

// handleRegister creates the tenant, seeds its permission catalog, admin
// role and default groups/subtasks, and creates the admin user.
func handleRegister(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		var existing models.User
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			utils.ConflictResponse(c, "This email address is already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to process password")
			return
		}

		now := time.Now().UTC()
		tenant := models.Tenant{
			ID:        uuid.New(),
			Name:      req.TenantName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := db.Create(&tenant).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create tenant")
			return
		}

		permissionKeys := make(models.StringList, 0, len(defaultPermissions))
		for _, seed := range defaultPermissions {
			permissionKeys = append(permissionKeys, seed.Key)
			perm := models.Permission{
				ID:          uuid.New(),
				TenantID:    tenant.ID,
				Key:         seed.Key,
				Name:        seed.Name,
				Description: seed.Description,
				CreatedAt:   now,
			}
			if err := db.Create(&perm).Error; err != nil {
				logrus.WithError(err).Warn("failed to seed permission")
			}
		}

		adminRole := models.Role{
			ID:          uuid.New(),
			TenantID:    tenant.ID,
			Name:        "Yönetici",
			Description: "Tüm yetkilere sahip yönetici rolü",
			Permissions: permissionKeys,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := db.Create(&adminRole).Error; err != nil {
			utils.InternalServerErrorResponse(c, "Failed to create default role")
			return
		}

		for i, g := range defaultGroups {
			group := models.Group{
				ID:          uuid.New(),
				TenantID:    tenant.ID,
				Name:        g.Name,
				Description: g.Description,
				SortOrder:   i + 1,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := db.Create(&group).Error; err != nil {
				logrus.WithError(err).Warn("failed to seed group")
				continue
			}
			for j, name := range g.Subtasks {
				subtask := models.Subtask{
					ID:        uuid.New(),
					TenantID:  tenant.ID,
					GroupID:   group.ID,
					Name:      name,
					SortOrder: j + 1,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := db.Create(&subtask).Error; err != nil {
					logrus.WithError(err).Warn("failed to seed subtask")
				}
			}
		}

		roleID := adminRole.ID
		user := models.User{
			ID:           uuid.New(),
			TenantID:     tenant.ID,
			Email:        req.Email,
			PasswordHash: string(hash),
			FullName:     req.FullName,
			RoleID:       &roleID,
			IsAdmin:      true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := db.Create(&user).Error; err != nil {
			if isDuplicateKeyError(err) {
				utils.ConflictResponse(c, "This email address is already registered")
				return
			}
			utils.InternalServerErrorResponse(c, "Failed to create user")
			return
		}

		token, err := middleware.IssueToken(user.ID, tenant.ID)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to issue token")
			return
		}

		utils.CreatedResponse(c, "Registration successful", gin.H{
			"access_token":    token,
			"token_type":      "bearer",
			"user":            user,
			"setup_completed": tenant.SetupCompleted,
		})
	}
}

// handleLogin verifies credentials and issues a token.
func handleLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequestResponse(c, "Invalid request format")
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			utils.UnauthorizedResponse(c, "Invalid email or password")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			utils.UnauthorizedResponse(c, "Invalid email or password")
			return
		}

		token, err := middleware.IssueToken(user.ID, user.TenantID)
		if err != nil {
			utils.InternalServerErrorResponse(c, "Failed to issue token")
			return
		}

		var tenant models.Tenant
		setupCompleted := false
		if err := db.Where("id = ?", user.TenantID).First(&tenant).Error; err == nil {
			setupCompleted = tenant.SetupCompleted
		}

		utils.OKResponse(c, "Login successful", gin.H{
			"access_token":    token,
			"token_type":      "bearer",
			"user":            user,
			"setup_completed": setupCompleted,
		})
	}
}

// handleGetMe returns the authenticated user.
func handleGetMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := mustActor(c)
		if actor == nil {
			return
		}

		var user models.User
		if err := db.Where("id = ? AND tenant_id = ?", actor.ID, actor.TenantID).First(&user).Error; err != nil {
			utils.NotFoundResponse(c, "User not found")
			return
		}

		var tenant models.Tenant
		setupCompleted := false
		if err := db.Where("id = ?", actor.TenantID).First(&tenant).Error; err == nil {
			setupCompleted = tenant.SetupCompleted
		}

		utils.OKResponse(c, "User retrieved successfully", gin.H{
			"user":            user,
			"permissions":     actor.Permissions,
			"setup_completed": setupCompleted,
		})
	}
}

package admin

import (
	"log"
	"net/http"

	"veena_crackers_back_end/internal/database"
	"veena_crackers_back_end/internal/models"
	"veena_crackers_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// Login authentifie un compte staff et délivre un token de session signé
// avec expiration. Remplace l'ancien flag isAdmin côté client : toute
// mutation de la console exige ce token.
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var admin models.AdminUser
	err = session.Query(`SELECT admin_id, email, password_hash, role FROM admins WHERE email = ?`,
		input.Email).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.Role)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	token, err := utils.GenerateAdminJWT(admin)
	if err != nil {
		log.Printf("❌ Erreur génération JWT: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
		return
	}

	log.Printf("✅ Connexion admin: %s", admin.Email)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"email": admin.Email,
		"role":  admin.Role,
	})
}

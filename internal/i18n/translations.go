// Package i18n holds the French UI strings.
package i18n

import (
	"fmt"
	"strings"
	"time"
)

var translations = map[string]string{
	// Navigation
	"dashboard": "Tableau de bord",
	"tasks":     "Tâches",
	"addTask":   "Ajouter une tâche",
	"settings":  "Paramètres",

	// Dashboard
	"welcomeBack":      "Bon retour ! 👋",
	"todayActivity":    "Voici ce qui se passe avec vos tâches aujourd'hui.",
	"totalTasks":       "Total des tâches",
	"completed":        "Terminées",
	"active":           "Actives",
	"highPriority":     "Priorité élevée",
	"progressOverview": "Aperçu des progrès",
	"complete":         "Terminé",
	"remaining":        "Restantes",
	"recentTasks":      "Tâches récentes",
	"noTasksYet":       "Aucune tâche pour le moment",
	"createFirstTask":  "Créer votre première tâche",
	"byCategory":       "Par catégorie",

	// Task list
	"searchTasks":  "Rechercher des tâches...",
	"filters":      "Filtres",
	"allTasks":     "Toutes les tâches",
	"noTasksFound": "Aucune tâche trouvée",
	"tryAdjusting": "Essayez d'ajuster votre recherche ou vos filtres",

	// Add/Edit task
	"editTask":          "Modifier la tâche",
	"taskTitle":         "Titre de la tâche",
	"whatNeedsDone":     "Que faut-il faire ?",
	"description":       "Description",
	"additionalDetails": "Ajouter des détails supplémentaires...",
	"priorityLevel":     "Niveau de priorité",
	"category":          "Catégorie",
	"dueDate":           "Date d'échéance",
	"optional":          "(Optionnel)",
	"cancel":            "Annuler",
	"updateTask":        "Mettre à jour la tâche",
	"createTask":        "Créer la tâche",
	"taskCreated":       "Tâche créée",
	"taskUpdated":       "Tâche mise à jour",
	"taskDeleted":       "Tâche supprimée",
	"taskNotFound":      "Tâche introuvable",

	// Settings
	"profile":           "Profil",
	"preferences":       "Préférences",
	"displayName":       "Nom d'affichage",
	"emailAddress":      "Adresse e-mail",
	"completionRate":    "Taux de réussite",
	"theme":             "Thème",
	"light":             "Clair",
	"dark":              "Sombre",
	"system":            "Système",
	"pushNotifications": "Notifications push",
	"autoSave":          "Sauvegarde automatique",
	"completionSound":   "Son de completion",
	"exportData":        "Exporter les données",
	"importData":        "Importer les données",
	"clearAllData":      "Effacer toutes les données",
	"settingsSaved":     "Paramètres sauvegardés avec succès !",

	// Priority labels
	"priority": "priorité",
	"low":      "faible",
	"medium":   "moyenne",
	"high":     "élevée",

	// Categories
	"categories.personal": "personnel",
	"categories.work":     "travail",
	"categories.shopping": "courses",
	"categories.health":   "santé",

	// Dates
	"created": "Créé le",
	"updated": "Mis à jour le",
	"due":     "Échéance",

	// Actions
	"edit":   "Modifier",
	"delete": "Supprimer",
	"save":   "Sauvegarder",
	"yes":    "Oui",
	"no":     "Non",
	"skip":   "Passer",

	// Validation
	"titleRequired":      "Le titre est requis",
	"titleTooLong":       "Le titre doit faire moins de 100 caractères",
	"descriptionTooLong": "La description doit faire moins de 500 caractères",
	"dueDatePast":        "La date d'échéance ne peut pas être dans le passé",
	"dueDateInvalid":     "Date invalide, utilisez le format AAAA-MM-JJ",

	// Confirmation
	"confirmClearData":    "Êtes-vous sûr de vouloir effacer toutes les données ? Cette action ne peut pas être annulée.",
	"confirmDelete":       "Supprimer cette tâche ?",
	"dataImportedSuccess": "Données importées avec succès !",
	"importError":         "Erreur lors de l'importation des données. Veuillez vérifier le format du fichier.",

	// Errors
	"errorOccurred": "Une erreur est survenue",
	"errorMessage":  "Nous sommes désolés, une erreur inattendue s'est produite. Veuillez réessayer.",
}

// T returns the translation for key, or key itself when unknown.
// Nested keys use dots, e.g. "categories.work".
func T(key string) string {
	if v, ok := translations[key]; ok {
		return v
	}
	return key
}

// Has reports whether key has a translation.
func Has(key string) bool {
	_, ok := translations[key]
	return ok
}

var months = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatDate renders t like "14 mars 2025".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

// FormatDateShort renders t like "14/03/2025".
func FormatDateShort(t time.Time) string {
	return t.Format("02/01/2006")
}

// Capitalize upper-cases the first letter, for labels used at the start of a line.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

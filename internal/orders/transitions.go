package orders

import "veena_crackers_back_end/internal/models"

// Machine à états du cycle de vie : Pending → Dispatched → Delivered.
// Seule la transition adjacente est légale, Delivered est terminal.
// Le type de paiement (TO-PAY ↔ PAID) est un flag parallèle sans restriction.
var statusTransitions = map[string][]string{
	models.StatusPending:    {models.StatusDispatched},
	models.StatusDispatched: {models.StatusDelivered},
	models.StatusDelivered:  {},
}

// IsValidStatus indique si la valeur est un statut connu.
func IsValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

// ValidStatusTransitions retourne les statuts atteignables depuis current.
func ValidStatusTransitions(current string) []string {
	next, ok := statusTransitions[current]
	if !ok {
		// Statut inconnu (donnée historique) : on laisse l'admin resynchroniser
		return []string{models.StatusPending, models.StatusDispatched, models.StatusDelivered}
	}
	return next
}

// CanTransition indique si from → to est une transition légale.
func CanTransition(from, to string) bool {
	for _, next := range ValidStatusTransitions(from) {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition retourne une *InvalidTransitionError si from → to est
// interdit. C'est le point d'entrée unique : toute mutation de statut passe
// par ici avant d'être écrite, aucun appelant ne peut le contourner.
func CheckTransition(from, to string) error {
	if !IsValidStatus(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// IsValidType indique si la valeur est un type de paiement connu.
func IsValidType(t string) bool {
	return t == models.TypeToPay || t == models.TypePaid
}

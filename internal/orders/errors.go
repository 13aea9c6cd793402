package orders

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOrderNotFound : l'identifiant ne référence plus aucune commande
	// (probablement supprimée par une autre session entre-temps).
	ErrOrderNotFound = errors.New("commande introuvable")

	// ErrVersionConflict : la version de base de l'écriture est périmée,
	// une autre session a modifié la commande depuis la lecture.
	ErrVersionConflict = errors.New("version de commande périmée")
)

// ValidationError porte la liste complète des violations, pas seulement la
// première : le client doit pouvoir afficher toutes les erreurs d'un coup.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "commande invalide: " + strings.Join(e.Errors, "; ")
}

// InvalidTransitionError : changement de statut non adjacent demandé.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition de statut interdite: %s → %s", e.From, e.To)
}

// TransportError enveloppe un échec du store distant (réseau, rejet).
// La cause est conservée et remontée telle quelle à l'appelant.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("erreur store (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

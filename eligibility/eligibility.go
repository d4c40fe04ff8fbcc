// Package eligibility decides whether a car may enter an event and whether a
// participant qualifies for a championship. It performs no I/O.
package eligibility

import (
	"fmt"

	"race-events/models"
)

// ValidateCarForEvent applies the event's car rules in order and returns the
// first failure. An empty reason accompanies ok.
func ValidateCarForEvent(car models.Car, event models.Event) (ok bool, reason string) {
	if event.CarTypeRequirement == models.CarTypeSpecificClass {
		if event.RequiredCarClass == "" {
			return false, "event requires a specific car class but none is configured"
		}
		if car.CarClass != event.RequiredCarClass {
			return false, fmt.Sprintf("car class does not match: required %s, car has %s",
				event.RequiredCarClass, car.CarClass)
		}
	}

	if event.MaxHorsepower != nil && car.Horsepower != nil && *car.Horsepower > *event.MaxHorsepower {
		return false, fmt.Sprintf("car horsepower (%d hp) exceeds the maximum allowed (%d hp)",
			*car.Horsepower, *event.MaxHorsepower)
	}

	if event.RequiredDriveType != "" && car.DriveType != event.RequiredDriveType {
		actual := car.DriveType
		if actual == "" {
			actual = "none"
		}
		return false, fmt.Sprintf("car drive type does not match: required %s, car has %s",
			event.RequiredDriveType, actual)
	}

	return true, ""
}

// ValidateChampionshipRequirements checks that the participant has at least
// the championship's minimum number of podium finishes across applications,
// which must be the participant's applications with final results loaded.
func ValidateChampionshipRequirements(participantID int64, championship models.Championship, applications []models.Application) (ok bool, reason string) {
	podiums := 0
	for _, a := range applications {
		if a.ParticipantID == participantID && a.FinalResult != nil && a.FinalResult.IsPodium() {
			podiums++
		}
	}
	if podiums < championship.MinPodiumsRequired {
		return false, fmt.Sprintf("championship requires at least %d podiums, participant has %d",
			championship.MinPodiumsRequired, podiums)
	}
	return true, ""
}

// CountPodiums counts applications whose final result is a top-three finish.
func CountPodiums(applications []models.Application) int {
	n := 0
	for _, a := range applications {
		if a.FinalResult != nil && a.FinalResult.IsPodium() {
			n++
		}
	}
	return n
}

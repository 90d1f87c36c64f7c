package bot

import (
	"strconv"
	"strings"
	"time"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/models"
	"rideshare/service"
)

const (
	departureLayout = "2006-01-02 15:04"
	routeSeparator  = "->"
	fieldSeparator  = "|"
)

// parseSignup reads "<passenger|driver> <first> <last> <email> [phone]".
func parseSignup(args []string) (service.SignupProfile, error) {
	if len(args) < 4 {
		return service.SignupProfile{}, apperrors.Validation("usage: /signup <passenger|driver> <first name> <last name> <email> [phone]")
	}
	p := service.SignupProfile{
		Role:      models.Role(strings.ToLower(args[0])),
		FirstName: args[1],
		LastName:  args[2],
		Email:     args[3],
	}
	if len(args) > 4 {
		p.Phone = strings.Join(args[4:], " ")
	}
	return p, nil
}

// parseRoute splits "from -> to". Either side may be empty.
func parseRoute(s string) (from, to string) {
	parts := strings.SplitN(s, routeSeparator, 2)
	from = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		to = strings.TrimSpace(parts[1])
	}
	return from, to
}

// parseBook reads "<ride id> [seats]". Seats default to 1.
func parseBook(args []string) (rideID string, seats int, err error) {
	if len(args) == 0 {
		return "", 0, apperrors.Validation("usage: /book <ride id> [seats]")
	}
	seats = 1
	if len(args) > 1 {
		seats, err = strconv.Atoi(args[1])
		if err != nil {
			return "", 0, apperrors.Validation("seats must be a number")
		}
	}
	return args[0], seats, nil
}

// parseVehicle reads "make | model | year | plate [| color]".
func parseVehicle(payload string) (models.Vehicle, error) {
	f := splitFields(payload)
	if len(f) < 4 {
		return models.Vehicle{}, apperrors.Validation("usage: /apply <make> | <model> | <year> | <plate> [| <color>]")
	}
	v := models.Vehicle{
		Make:  f[0],
		Model: f[1],
		Year:  f[2],
		Plate: strings.ToUpper(f[3]),
	}
	if len(f) > 4 {
		v.Color = f[4]
	}
	if missing := v.Missing(); len(missing) > 0 {
		return models.Vehicle{}, apperrors.Validation("vehicle %s required", strings.Join(missing, ", "))
	}
	return v, nil
}

// publishRequest is a parsed /publish command. Price 0 asks for a suggestion.
type publishRequest struct {
	Draft      service.RideDraft
	AutoPrice  bool
	DistanceKm float64
}

// parsePublish reads
// "from -> to | YYYY-MM-DD HH:MM | duration | seats | price|auto [| km] [| stop, stop]".
func parsePublish(payload string, loc *time.Location) (publishRequest, error) {
	f := splitFields(payload)
	if len(f) < 5 {
		return publishRequest{}, apperrors.Validation("usage: /publish <from> -> <to> | <YYYY-MM-DD HH:MM> | <duration> | <seats> | <price|auto> [| <km>] [| <stop, stop>]")
	}

	from, to := parseRoute(f[0])
	if from == "" || to == "" {
		return publishRequest{}, apperrors.Validation("route must look like <from> -> <to>")
	}
	dep, err := time.ParseInLocation(departureLayout, f[1], loc)
	if err != nil {
		return publishRequest{}, apperrors.Validation("departure must look like %s", departureLayout)
	}
	dur, err := time.ParseDuration(f[2])
	if err != nil || dur <= 0 {
		return publishRequest{}, apperrors.Validation("duration must look like 5h30m")
	}
	seats, err := strconv.Atoi(f[3])
	if err != nil {
		return publishRequest{}, apperrors.Validation("seats must be a number")
	}

	req := publishRequest{
		Draft: service.RideDraft{
			Origin:        from,
			Destination:   to,
			DepartureTime: dep,
			ArrivalTime:   dep.Add(dur),
			TotalSeats:    seats,
		},
	}
	if strings.EqualFold(f[4], "auto") {
		req.AutoPrice = true
	} else if req.Draft.Price, err = strconv.Atoi(f[4]); err != nil {
		return publishRequest{}, apperrors.Validation("price must be a whole number or auto")
	}

	if len(f) > 5 && f[5] != "" {
		km, err := strconv.ParseFloat(strings.TrimSuffix(strings.ToLower(f[5]), "km"), 64)
		if err != nil {
			return publishRequest{}, apperrors.Validation("distance must be a number of km")
		}
		req.DistanceKm = km
		req.Draft.DistanceKm = km
	}
	if len(f) > 6 {
		for _, stop := range strings.Split(f[6], ",") {
			if stop = strings.TrimSpace(stop); stop != "" {
				req.Draft.Stops = append(req.Draft.Stops, stop)
			}
		}
	}
	return req, nil
}

func splitFields(payload string) []string {
	if strings.TrimSpace(payload) == "" {
		return nil
	}
	parts := strings.Split(payload, fieldSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

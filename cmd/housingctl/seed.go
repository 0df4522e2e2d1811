package main

import (
	"context"
	"fmt"
	"math/rand"

	"housing-intel/internal/model"
	"housing-intel/internal/repository"

	"github.com/sirupsen/logrus"
)

// Pre-computed bcrypt hash for "password123"; sample accounts only.
const defaultPasswordHash = "$2b$12$LQv3c1yqBWVHxkd0LHAkCOYz6TtxMQJqhN8/LewY5GyYzS7sFJ6FS"

type areaProfile struct {
	minRent, maxRent float64
	lat, lng         float64
}

// Lagos areas with typical annual rent ranges (Naira) and center coordinates.
var lagosAreas = map[string]areaProfile{
	"Lekki":           {800000, 5000000, 6.4474, 3.5528},
	"Ikeja":           {400000, 2500000, 6.6018, 3.3515},
	"Victoria Island": {1500000, 8000000, 6.4281, 3.4219},
	"Yaba":            {300000, 1500000, 6.5074, 3.3719},
	"Surulere":        {350000, 1800000, 6.4969, 3.3537},
	"Ikoyi":           {2000000, 10000000, 6.4550, 3.4284},
	"Ajah":            {400000, 2000000, 6.4698, 3.5699},
	"Gbagada":         {350000, 1600000, 6.5426, 3.3840},
	"Maryland":        {400000, 2200000, 6.5729, 3.3633},
	"Festac":          {350000, 1400000, 6.4667, 3.2833},
}

var propertyTitles = map[string][]string{
	model.PropertyTypeApartment: {
		"Modern %d Bedroom Apartment in %s",
		"Spacious %d Bedroom Flat in %s",
		"Serviced %d Bedroom Apartment in %s",
	},
	model.PropertyTypeHouse: {
		"%d Bedroom Detached House in %s",
		"Executive %d Bedroom House in %s",
		"%d Bedroom Family Home in %s",
	},
	model.PropertyTypeDuplex: {
		"Luxury %d Bedroom Duplex in %s",
		"Fully Detached %d Bedroom Duplex in %s",
		"Tastefully Finished %d Bedroom Duplex in %s",
	},
	model.PropertyTypeRoom: {
		"Self-Contained Room in %s",
		"Spacious Single Room in %s",
		"Self-Con with Kitchen in %s",
	},
}

var propertyDescriptions = []string{
	"This property features modern finishes, ample parking space, and 24/7 security. Located in a serene environment with easy access to major roads.",
	"Well-maintained property with standby generator, water supply, and good drainage system. Close to shopping malls and schools.",
	"Newly renovated property with contemporary design. Features include fitted kitchen, wardrobes, and tiled floors throughout.",
	"Spacious and airy property in a gated estate. Amenities include swimming pool, gym, and children's playground.",
	"Property comes with prepaid meter, water heater, and air conditioning units. Excellent security and estate management.",
	"Located in a peaceful neighborhood with good road network. Property is well-ventilated with large windows and balconies.",
}

var sampleImages = []string{
	"https://res.cloudinary.com/demo/image/upload/v1/apartment_1.jpg",
	"https://res.cloudinary.com/demo/image/upload/v1/apartment_2.jpg",
	"https://res.cloudinary.com/demo/image/upload/v1/house_1.jpg",
	"https://res.cloudinary.com/demo/image/upload/v1/house_2.jpg",
	"https://res.cloudinary.com/demo/image/upload/v1/duplex_1.jpg",
}

var landlordData = []struct {
	name, phone, email string
}{
	{"Chukwudi Okonkwo", "08012345678", "chukwudi.okonkwo@gmail.com"},
	{"Aisha Bello", "08023456789", "aisha.bello@gmail.com"},
	{"Oluwaseun Adeyemi", "08034567890", "seun.adeyemi@gmail.com"},
	{"Ngozi Eze", "08045678901", "ngozi.eze@gmail.com"},
	{"Ibrahim Yusuf", "08056789012", "ibrahim.yusuf@gmail.com"},
	{"Funmilayo Ogundipe", "08067890123", "funmi.ogundipe@gmail.com"},
	{"Emeka Nwosu", "08078901234", "emeka.nwosu@gmail.com"},
	{"Zainab Mohammed", "08089012345", "zainab.mohammed@gmail.com"},
	{"Tunde Bakare", "08090123456", "tunde.bakare@gmail.com"},
	{"Blessing Okeke", "08101234567", "blessing.okeke@gmail.com"},
}

type reviewSeed struct {
	text, pros, cons string
	rating           int
}

// Tenant review snippets reflecting common complaints and selling points of
// each area: power, water, flooding, traffic, rent level.
var areaReviews = map[string][]reviewSeed{
	"Lekki": {
		{"Estate has 24/7 power with backup generator. No power issues at all.", "Stable electricity, good security with CCTV everywhere", "Service charges are expensive", 4},
		{"Peaceful environment, great for families. Close to beach and recreational spots.", "Serene atmosphere, nice restaurants and malls nearby", "Flooding during heavy rain on low-lying streets", 4},
		{"Traffic on Lekki-Epe expressway is terrible during rush hour. Can take 2 hours to get to VI.", "Borehole water is constant", "Commute to the island is stressful, rent is premium", 3},
	},
	"Ajah": {
		{"SEVERE flooding during rainy season! Abraham Adesanya area gets waterlogged.", "More affordable than Lekki while still on the peninsula", "Roads become rivers when it rains heavily", 2},
		{"Inconsistent power supply. Generator is a must-have here.", "Area is developing fast with new facilities coming up", "Only get 6-8 hours of light on good days", 3},
		{"Very far from the island. Commute can take 2-3 hours in traffic.", "Good road network improving accessibility", "Limited public transport, you really need a car", 3},
	},
	"Victoria Island": {
		{"Excellent power supply in most estates. 20+ hours daily with generator backup.", "Premium infrastructure, everything works well", "Extremely expensive compared to mainland", 4},
		{"Traffic is TERRIBLE! Bar Beach and Ozumba Mbadiwe are always jammed.", "Short commute if you work on the island", "Parking is a major problem, very limited space", 3},
		{"Excellent security. Very safe neighborhood with international schools nearby.", "Cosmopolitan area, close to business districts", "Service charges are outrageous", 4},
	},
	"Ikeja": {
		{"Reliable power supply. We get 18-20 hours daily in Ikeja GRA.", "Good infrastructure, excellent transport links", "Airport noise can be disturbing in GRA", 4},
		{"Traffic congestion everywhere, especially Allen Avenue and Obafemi Awolowo.", "Central location, moderate rent compared to island", "Air pollution from heavy traffic", 3},
		{"Plenty of commercial activities and facilities nearby.", "Easy to get anywhere in Lagos, good value for money", "Very busy and commercial, not peaceful", 4},
	},
	"Yaba": {
		{"Very affordable rent. Budget-friendly for young professionals and students.", "Great transport links, vibrant nightlife, tech hub with co-working spaces", "Very noisy, parties and street noise daily", 4},
		{"Loud music and generator noise, especially on weekends.", "Central location, everything is accessible", "Densely populated, can feel crowded and chaotic", 2},
		{"Power supply is decent. We get about 16-18 hours daily.", "Easy access to mainland and island", "Some parts can be rough, security varies by street", 3},
	},
	"Surulere": {
		{"Affordable rent for an established area with excellent public transport.", "Buses and taxis everywhere, all necessary facilities", "Older infrastructure, buildings need maintenance", 4},
		{"Traffic on Bode Thomas and Adeniran Ogunsanya is heavy during rush hour.", "Central location, accessible to mainland and island", "Flooding in low-lying areas like Iponri during heavy rain", 3},
		{"NEPA supply varies. Some days good, some days terrible.", "Established neighborhood", "Can be noisy in commercial areas near the Stadium", 3},
	},
	"Ikoyi": {
		{"24/7 power supply with excellent backup systems. No issues at all.", "Best power infrastructure in Lagos, extremely secure", "Rent is ASTRONOMICALLY expensive", 5},
		{"Very quiet and peaceful. Green spaces and parks, diplomatic zone.", "Well-maintained roads, excellent schools for families", "Not accessible for middle-class budgets", 5},
		{"Ultra-premium area with top-notch infrastructure.", "Very safe, serene", "Service charges are extremely high, limited public transport", 4},
	},
	"Gbagada": {
		{"Moderate rent. Strategic location between mainland and island.", "Accessible to Third Mainland Bridge, decent neighborhood", "Bridge approach traffic is terrible during rush hour", 4},
		{"Power supply is fairly good. About 15-17 hours daily.", "Good mix of residential and commercial", "Flooding around Gbagada-Oworonshoki during heavy rain", 3},
		{"Can be noisy near major roads like Gbagada Expressway.", "Moderate rent", "Mixed infrastructure, some areas not well-developed", 3},
	},
	"Maryland": {
		{"Major transport hub. Easy to get anywhere from here.", "Good commercial facilities and shopping, moderate rent", "Heavy traffic at Maryland bus stop and Ikorodu Road junction", 4},
		{"Very busy and commercial. Can be chaotic and noisy.", "Accessible location with good road network", "Pollution and noise from buses, limited parking", 3},
		{"Power supply is decent. Around 15-17 hours daily in residential areas.", "More affordable than island", "Older infrastructure affects power stability", 3},
	},
	"Festac": {
		{"Old infrastructure from 1977. Buildings and roads need renovation.", "Affordable rent, good estate layout and planning", "Area feels dated, limited modern facilities", 3},
		{"Inconsistent power supply. NEPA is unreliable here.", "Decent security in gated estates", "Generator use is common, adds to living costs", 2},
		{"Water scarcity in some areas. Runs only 2-3 times weekly.", "Established area with schools and facilities", "Very far from the island, commute can take 2+ hours", 3},
	},
}

var areaNames = []string{
	"Lekki", "Ikeja", "Victoria Island", "Yaba", "Surulere",
	"Ikoyi", "Ajah", "Gbagada", "Maryland", "Festac",
}

// runSeed creates sample landlords, properties with images, and tenant
// reviews. Uses a fixed random seed so repeated runs on a fresh database
// produce the same data.
func runSeed(ctx context.Context, repo *repository.PostgresRepository, logger *logrus.Logger, numProperties, reviewsPerArea int) error {
	rng := rand.New(rand.NewSource(42))

	landlordIDs, err := seedLandlords(ctx, repo)
	if err != nil {
		return err
	}
	logger.WithField("count", len(landlordIDs)).Info("Landlords created")

	if err := seedProperties(ctx, repo, rng, landlordIDs, numProperties); err != nil {
		return err
	}
	logger.WithField("count", numProperties).Info("Properties created")

	reviews, err := seedReviews(ctx, repo, rng, reviewsPerArea)
	if err != nil {
		return err
	}
	logger.WithField("count", reviews).Info("Reviews created")

	logger.Info("Seeding complete. Run 'housingctl seed-reviews' to build the review index.")
	return nil
}

func seedLandlords(ctx context.Context, repo *repository.PostgresRepository) ([]int64, error) {
	ids := make([]int64, 0, len(landlordData))
	for _, ld := range landlordData {
		phone := ld.phone
		id, err := repo.InsertUser(ctx, &model.User{
			Email:        ld.email,
			PasswordHash: defaultPasswordHash,
			Role:         model.RoleLandlord,
			FullName:     ld.name,
			PhoneNumber:  &phone,
			IsVerified:   true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create landlord %s: %w", ld.email, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedProperties(ctx context.Context, repo *repository.PostgresRepository, rng *rand.Rand, landlordIDs []int64, count int) error {
	types := []string{
		model.PropertyTypeApartment, model.PropertyTypeHouse,
		model.PropertyTypeDuplex, model.PropertyTypeRoom,
	}
	// apartment-heavy distribution, rooms and duplexes rarer
	typeWeights := []float64{0.6, 0.2, 0.1, 0.1}

	for i := 0; i < count; i++ {
		area := areaNames[rng.Intn(len(areaNames))]
		profile := lagosAreas[area]
		propType := weightedChoice(rng, types, typeWeights)

		var bedrooms, bathrooms int
		switch propType {
		case model.PropertyTypeRoom:
			bedrooms, bathrooms = 1, 1
		case model.PropertyTypeApartment:
			bedrooms = 1 + rng.Intn(4)
			bathrooms = 1 + rng.Intn(3)
		default:
			bedrooms = 3 + rng.Intn(3)
			bathrooms = 2 + rng.Intn(3)
		}

		// larger properties rent above the area baseline
		multiplier := 1 + float64(bedrooms-1)*0.3
		minRent := profile.minRent * multiplier
		maxRent := profile.maxRent * multiplier
		rent := minRent + rng.Float64()*(maxRent-minRent)

		titles := propertyTitles[propType]
		var title string
		if propType == model.PropertyTypeRoom {
			title = fmt.Sprintf(titles[rng.Intn(len(titles))], area)
		} else {
			title = fmt.Sprintf(titles[rng.Intn(len(titles))], bedrooms, area)
		}

		description := propertyDescriptions[rng.Intn(len(propertyDescriptions))]
		address := fmt.Sprintf("%d %s, %s, Lagos",
			1+rng.Intn(50),
			[]string{"Street", "Road", "Avenue", "Close"}[rng.Intn(4)],
			area,
		)
		latitude := profile.lat + (rng.Float64()-0.5)*0.04
		longitude := profile.lng + (rng.Float64()-0.5)*0.04
		landlordID := landlordIDs[rng.Intn(len(landlordIDs))]

		propertyID, err := repo.InsertProperty(ctx, &model.Property{
			LandlordID:   &landlordID,
			Title:        title,
			Description:  &description,
			Area:         area,
			Address:      &address,
			PropertyType: propType,
			Bedrooms:     bedrooms,
			Bathrooms:    bathrooms,
			RentPrice:    float64(int(rent)),
			IsAvailable:  rng.Float64() < 0.7,
			Latitude:     &latitude,
			Longitude:    &longitude,
		})
		if err != nil {
			return fmt.Errorf("failed to create property: %w", err)
		}

		numImages := 3 + rng.Intn(3)
		for j := 0; j < numImages; j++ {
			err := repo.InsertPropertyImage(ctx, &model.PropertyImage{
				PropertyID: propertyID,
				ImageURL:   sampleImages[rng.Intn(len(sampleImages))],
				IsPrimary:  j == 0,
			})
			if err != nil {
				return fmt.Errorf("failed to create property image: %w", err)
			}
		}
	}
	return nil
}

func seedReviews(ctx context.Context, repo *repository.PostgresRepository, rng *rand.Rand, perArea int) (int, error) {
	created := 0
	for _, area := range areaNames {
		seeds := areaReviews[area]
		profile := lagosAreas[area]
		for i := 0; i < perArea; i++ {
			seed := seeds[i%len(seeds)]
			reviewTypes := []string{model.PropertyTypeApartment, model.PropertyTypeHouse, model.PropertyTypeRoom}
			propType := reviewTypes[rng.Intn(len(reviewTypes))]
			rentPaid := profile.minRent + rng.Float64()*(profile.maxRent-profile.minRent)
			rating := seed.rating
			pros := seed.pros
			cons := seed.cons

			_, err := repo.InsertReview(ctx, &model.Review{
				Area:         area,
				RentPaid:     &rentPaid,
				PropertyType: &propType,
				ReviewText:   seed.text,
				Pros:         &pros,
				Cons:         &cons,
				Rating:       &rating,
				IsAnonymous:  rng.Float64() < 0.5,
			})
			if err != nil {
				return created, fmt.Errorf("failed to create review for %s: %w", area, err)
			}
			created++
		}
	}
	return created, nil
}

func weightedChoice(rng *rand.Rand, options []string, weights []float64) string {
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return options[i]
		}
	}
	return options[len(options)-1]
}

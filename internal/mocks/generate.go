package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/team --output domain/team --outpkg teammock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/player --output domain/player --outpkg playermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name LeagueDataProvider --dir ../usecase --output ../usecase --inpackage --testonly --structname leagueDataProviderMock --filename league_data_provider_mock_test.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name LeagueListingSource --dir ../usecase --output ../usecase --inpackage --testonly --structname listingSourceMock --filename league_listing_source_mock_test.go

package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/appconfig --output domain/appconfig --outpkg appconfigmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/webhooklog --output domain/webhooklog --outpkg webhooklogmock --filename repository_mock.go
